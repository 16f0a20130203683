package main

import (
	"encoding/csv"
	"fmt"
	"image/gif"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"idz2_opt/internal/optimizer"
	"idz2_opt/internal/render"
)

var opts struct {
	expr    string
	method  string
	a, b    float64
	relTol  float64
	absTol  float64
	eps     float64
	delta   float64
	maxIter int
	csvPath string
	gifPath string
}

func main() {
	cmd := &cobra.Command{
		Use:          "minimize",
		Short:        "Поиск минимума функции одной переменной на отрезке",
		RunE:         run,
		SilenceUsage: true,
	}

	fl := cmd.Flags()
	fl.StringVarP(&opts.expr, "func", "f", "", `выражение f(x), например "pow(x-2,2)+1"`)
	fl.StringVarP(&opts.method, "method", "m", "brent", "метод: dichotomy|golden|parabolic|brent")
	fl.Float64Var(&opts.a, "a", 0, "левый конец отрезка")
	fl.Float64Var(&opts.b, "b", 1, "правый конец отрезка")
	fl.Float64Var(&opts.relTol, "rel-tol", 1e-8, "относительная точность (brent)")
	fl.Float64Var(&opts.absTol, "abs-tol", 1e-8, "абсолютная точность (brent)")
	fl.Float64Var(&opts.eps, "eps", 1e-5, "точность (dichotomy/golden/parabolic)")
	fl.Float64Var(&opts.delta, "delta", 0, "смещение проб (dichotomy), по умолчанию eps/2")
	fl.IntVar(&opts.maxIter, "max-iter", 100, "максимум итераций")
	fl.StringVar(&opts.csvPath, "csv", "", "записать журнал итераций в CSV-файл")
	fl.StringVar(&opts.gifPath, "gif", "", "записать анимацию запуска в GIF-файл")
	_ = cmd.MarkFlagRequired("func")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	f, err := optimizer.NewEvalFunc(opts.expr)
	if err != nil {
		return fmt.Errorf("ошибка в выражении функции: %w", err)
	}
	if opts.delta <= 0 {
		opts.delta = opts.eps / 2
	}

	var res optimizer.Result
	switch opts.method {
	case "dichotomy":
		res, err = optimizer.Dichotomy(f, opts.a, opts.b, opts.eps, opts.delta, opts.maxIter, nil)
	case "golden":
		res, err = optimizer.GoldenSection(f, opts.a, opts.b, opts.eps, opts.maxIter, nil)
	case "parabolic":
		res, err = optimizer.Parabolic(f, opts.a, opts.b, opts.eps, opts.maxIter, nil)
	case "brent":
		res, err = optimizer.Brent(f, opts.a, opts.b, opts.relTol, opts.absTol, opts.maxIter, nil)
	default:
		return fmt.Errorf("неизвестный метод: %s", opts.method)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "k\ta\tb\tx\tf(x)\tu\tf(u)\tstep")
	for _, it := range res.Iters {
		fmt.Fprintf(tw, "%d\t%.8g\t%.8g\t%.8g\t%.8g\t%.8g\t%.8g\t%s\n",
			it.K, it.A, it.B, it.X, it.FX, it.U, it.FU, it.Step)
	}
	tw.Flush()
	fmt.Printf("\nx* = %.10g\nf(x*) = %.10g\nитераций: %d, сходимость: %v\n",
		res.X, res.FX, res.Iterations, res.Converged)

	if opts.csvPath != "" {
		if err := writeCSV(opts.csvPath, res.Iters); err != nil {
			return err
		}
	}
	if opts.gifPath != "" {
		if err := writeGIF(opts.gifPath, f, res.Iters); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, iters []optimizer.Iter) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	cw := csv.NewWriter(out)
	defer cw.Flush()

	if err := cw.Write([]string{"k", "a", "b", "x", "f(x)", "u", "f(u)", "b-a", "step"}); err != nil {
		return err
	}
	for _, it := range iters {
		rec := []string{
			strconv.Itoa(it.K),
			fmtFloat(it.A),
			fmtFloat(it.B),
			fmtFloat(it.X),
			fmtFloat(it.FX),
			fmtFloat(it.U),
			fmtFloat(it.FU),
			fmtFloat(it.Len),
			string(it.Step),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func writeGIF(path string, f optimizer.Func, iters []optimizer.Iter) error {
	anim, err := render.Animate(f, opts.a, opts.b, iters, render.Options{})
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return gif.EncodeAll(out, anim)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 16, 64)
}

package main

import (
	"log"
	"net/http"

	"idz2_opt/internal/server"
)

func main() {
	srv := server.New()
	log.Println("Сервер запущен на http://localhost:8080")
	log.Println("Static files served from:", "static")
	log.Fatal(http.ListenAndServe(":8080", srv.Router()))
}

package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"smart-zavuch/access"
	"smart-zavuch/controllers"
	"smart-zavuch/driver"
)

var db *sql.DB

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	secret := os.Getenv("SECRET")
	if secret == "" {
		log.Fatal("SECRET variable is not set")
	}

	db = driver.ConnectDB()
	defer db.Close()

	allowChecker := access.NewSheetChecker(os.Getenv("ALLOWLIST_URL"), 10*time.Second)

	controller := controllers.Controller{}
	reportController := controllers.ReportController{}
	router := mux.NewRouter()

	router.HandleFunc("/signup", controller.Signup(db)).Methods("POST")
	router.HandleFunc("/login", controller.Login(db)).Methods("POST")
	router.HandleFunc("/login/phone", controller.PhoneLogin(allowChecker)).Methods("POST")

	router.HandleFunc("/reports", reportController.CreateReport(db)).Methods("POST")
	router.HandleFunc("/reports", reportController.GetReports(db)).Methods("GET")
	router.HandleFunc("/reports/trend", reportController.GetTrend(db)).Methods("GET")
	router.HandleFunc("/reports/rating", reportController.GetRating(db)).Methods("GET")
	router.HandleFunc("/reports/export/excel", reportController.ExportExcel(db)).Methods("GET")
	router.HandleFunc("/reports/{id}/export/word", reportController.ExportWord(db)).Methods("GET")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Println("Server started on port " + port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

package driver

import (
	"database/sql"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var db *sql.DB

// ConnectDB открывает базу по DB_DRIVER/DB_DSN. По умолчанию — локальный
// sqlite-файл school_focus_lite.db, для продакшена — mysql.
func ConnectDB() *sql.DB {
	driverName := os.Getenv("DB_DRIVER")
	if driverName == "" {
		driverName = "sqlite3"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		if driverName == "mysql" {
			log.Fatal("DB_DSN must be set when DB_DRIVER=mysql")
		}
		dsn = "school_focus_lite.db"
	}

	var err error
	db, err = sql.Open(driverName, dsn)
	if err != nil {
		log.Fatal("Ошибка подключения к базе данных: ", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Не удалось подключиться к базе данных: ", err)
	}
	if err := InitSchema(db, driverName); err != nil {
		log.Fatal("Не удалось создать схему: ", err)
	}
	return db
}

// InitSchema создает таблицы users и reports, если их еще нет. Схема
// меняется только добавлением колонок, старые строки остаются читаемыми.
func InitSchema(db *sql.DB, driverName string) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driverName == "mysql" {
		idColumn = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	}

	usersTable := `CREATE TABLE IF NOT EXISTS users (
		id ` + idColumn + `,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL
	)`
	if _, err := db.Exec(usersTable); err != nil {
		return errors.Wrap(err, "create users table")
	}

	reportsTable := `CREATE TABLE IF NOT EXISTS reports (
		id ` + idColumn + `,
		user_id VARCHAR(100) NOT NULL,
		date VARCHAR(10), quarter INTEGER, teacher TEXT, student TEXT, subject TEXT, grade TEXT, topic TEXT, goal TEXT,
		purpose TEXT, start_t TEXT, start_s TEXT, middle_t TEXT, middle_s TEXT, end_t TEXT, end_s TEXT,
		ict_usage TEXT, methods TEXT, reflection TEXT,
		reserve_json TEXT, scores_json TEXT, comments_json TEXT,
		s1 TEXT, s2 TEXT, s3 TEXT, g1 TEXT, g2 TEXT, g3 TEXT, advice TEXT,
		percent REAL, lang VARCHAR(2)
	)`
	if _, err := db.Exec(reportsTable); err != nil {
		return errors.Wrap(err, "create reports table")
	}
	return nil
}

package main

import (
	"flag"

	"telemed.link/configs"
	"telemed.link/configs/configslog"
	"telemed.link/database"
)

func main() {
	configs.LoadEnv()
	configslog.Init()
	defer configslog.Sync()

	migrateFlag := flag.Bool("migrate", false, "Veritabanı başlatma işlemini çalıştır (migrasyonları içerir)")
	seedFlag := flag.Bool("seed", false, "Veritabanı başlatma işlemini çalıştır (seederları içerir)")
	flag.Parse()

	db := configs.InitDB()

	configslog.SLog.Info("Veritabanı başlatma işlemi çalıştırılıyor...")
	database.Initialize(db, *migrateFlag, *seedFlag)

	configslog.SLog.Info("Veritabanı başlatma işlemi tamamlandı.")
}

package configs

import (
	"os"

	"telemed.link/configs/configslog"

	"github.com/joho/godotenv"
)

// LoadEnv .env dosyasını yükler. Dosya yoksa ortam değişkenleriyle devam edilir.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Info(".env dosyası bulunamadı, mevcut ortam değişkenleri kullanılacak.")
	}
}

// GetEnv anahtarı okur, boşsa fallback döndürür.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetListenAddr HTTP sunucusunun dinleyeceği adres.
func GetListenAddr() string {
	return GetEnv("LISTEN_ADDR", ":3000")
}

// GetDatabaseDSN Postgres bağlantı cümlesi.
func GetDatabaseDSN() string {
	return GetEnv("DATABASE_DSN",
		"host=localhost user=telemed password=telemed dbname=telemed port=5432 sslmode=disable TimeZone=UTC")
}

// GetJWTSecret token imzalama anahtarı.
func GetJWTSecret() []byte {
	return []byte(GetEnv("JWT_SECRET", "gelistirme-ortami-anahtari"))
}

// GetJournalPath olay defterinin (LevelDB) dosya yolu.
func GetJournalPath() string {
	return GetEnv("JOURNAL_PATH", "./data/journal")
}

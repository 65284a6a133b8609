package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log yapılandırılmış (structured) logger.
// SLog printf tarzı loglama için sugared logger.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

// Init ortam değişkenine göre logger'ı başlatır.
// APP_ENV=production ise JSON formatlı prod config, aksi halde development config.
func Init() {
	env := os.Getenv("APP_ENV")

	var err error
	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		Log, err = cfg.Build()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		// Logger kurulamazsa uygulama devam edemez.
		panic("logger başlatılamadı: " + err.Error())
	}
	SLog = Log.Sugar()
}

// Sync buffer'daki logları flush eder (main'de defer ile çağrılır).
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

func init() {
	// Testler ve erken loglama için güvenli varsayılan.
	if Log == nil {
		Log = zap.NewNop()
		SLog = Log.Sugar()
	}
}

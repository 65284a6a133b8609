package checked

import (
	"errors"
	"math"
)

// ErrOverflow toplama sonucu alan sınırını aşarsa döner.
// Akümülatörler (puan, oy toplamı, sayaçlar) taşma durumunda sessizce
// doyurulmaz; işlem tümüyle reddedilir.
var ErrOverflow = errors.New("aritmetik taşma")

// AddInt64 taşma kontrollü int64 toplama.
func AddInt64(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// MulInt64 taşma kontrollü int64 çarpma (ücret çarpanları için).
func MulInt64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a {
		return 0, ErrOverflow
	}
	return c, nil
}

// AddInt taşma kontrollü int toplama (haftalık/aylık sayaçlar).
func AddInt(a, b int) (int, error) {
	if b > 0 && a > math.MaxInt-b {
		return 0, ErrOverflow
	}
	if b < 0 && a < math.MinInt-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

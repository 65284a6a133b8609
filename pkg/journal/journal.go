package journal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
)

// Olay defteri: her durum değişikliği için tek kayıt, salt ekleme (append-only).
// Dış indeksleyiciler bu defteri sıra numarasından itibaren okuyarak güncel
// durumu iç mantığı tekrar çalıştırmadan kurabilir.
//
// Anahtar düzeni:
//   event_<seq>  => Event JSON (sıra numarası bazlı erişim)
//   seq_latest   => son sıra numarası (meta)

// Event deftere yazılan tek olay kaydı.
type Event struct {
	Seq      uint64         `json:"seq"`
	ID       string         `json:"id"`   // uuid
	Type     string         `json:"type"` // ör: appointment.booked
	EntityID string         `json:"entity_id"`
	Payload  map[string]any `json:"payload,omitempty"`
	At       time.Time      `json:"at"`
}

// Journal LevelDB üzerinde salt ekleme olay defteri.
type Journal struct {
	db *leveldb.DB
	mu sync.Mutex // seq ataması tek yazıcıya seri hale getirilir
}

// Open verilen yolda defteri açar (yoksa oluşturur).
func Open(path string) (*Journal, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("olay defteri açılamadı: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close defteri kapatır.
func (j *Journal) Close() error {
	return j.db.Close()
}

func eventKey(seq uint64) []byte {
	return []byte("event_" + strconv.FormatUint(seq, 10))
}

func (j *Journal) latestSeq() uint64 {
	v, err := j.db.Get([]byte("seq_latest"), nil)
	if err != nil {
		return 0
	}
	n, err := strconv.ParseUint(string(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Append olayı bir sonraki sıra numarasıyla deftere yazar ve
// atanan sıra numarasını döndürür. Sıra numaraları 1'den başlar,
// boşluksuz ve monoton artar.
func (j *Journal) Append(ev Event) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	seq := j.latestSeq() + 1
	ev.Seq = seq

	data, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("olay serileştirilemedi: %w", err)
	}
	if err := j.db.Put(eventKey(seq), data, nil); err != nil {
		return 0, fmt.Errorf("olay yazılamadı: %w", err)
	}
	if err := j.db.Put([]byte("seq_latest"), []byte(strconv.FormatUint(seq, 10)), nil); err != nil {
		return 0, fmt.Errorf("sıra numarası güncellenemedi: %w", err)
	}
	return seq, nil
}

// ReadFrom verilen sıra numarasından itibaren en fazla limit olay okur.
func (j *Journal) ReadFrom(from uint64, limit int) ([]Event, error) {
	if from == 0 {
		from = 1
	}
	if limit <= 0 {
		limit = 100
	}
	latest := j.latestSeq()

	events := make([]Event, 0, limit)
	for seq := from; seq <= latest && len(events) < limit; seq++ {
		data, err := j.db.Get(eventKey(seq), nil)
		if err != nil {
			if err == leveldb.ErrNotFound {
				continue
			}
			return nil, fmt.Errorf("olay okunamadı (seq %d): %w", seq, err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("olay çözümlenemedi (seq %d): %w", seq, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// LatestSeq defterdeki son sıra numarası (boş defterde 0).
func (j *Journal) LatestSeq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.latestSeq()
}

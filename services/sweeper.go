package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/ordering-app/models"
	"github.com/yeremiapane/ordering-app/utils"
)

const DefaultSweepBatchSize = 100

// FinalizationSweeper meng-commit order pending yang undo window-nya sudah
// lewat. Stateless: serialisasi lawan cancel customer sepenuhnya lewat
// conditional update di store, jadi aman dijalankan di banyak instance.
type FinalizationSweeper struct {
	DB        *gorm.DB
	Orders    *OrderService
	Interval  time.Duration
	BatchSize int
	StopChan  chan struct{}
}

func NewFinalizationSweeper(db *gorm.DB, orders *OrderService) *FinalizationSweeper {
	return &FinalizationSweeper{
		DB:        db,
		Orders:    orders,
		Interval:  10 * time.Second,
		BatchSize: DefaultSweepBatchSize,
		StopChan:  make(chan struct{}),
	}
}

func (fs *FinalizationSweeper) Start() {
	go func() {
		ticker := time.NewTicker(fs.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				result := fs.RunSweep(time.Now())
				if result.Finalized > 0 || result.Failed > 0 {
					utils.InfoLogger.Printf("sweep: scanned=%d finalized=%d skipped=%d failed=%d",
						result.Scanned, result.Finalized, result.Skipped, result.Failed)
				}
			case <-fs.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("Finalization sweeper started")
}

func (fs *FinalizationSweeper) Stop() {
	close(fs.StopChan)
}

type SweepError struct {
	OrderID uint   `json:"order_id"`
	Reason  string `json:"reason"`
}

type SweepResult struct {
	Scanned   int          `json:"scanned"`
	Finalized int          `json:"finalized"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Errors    []SweepError `json:"errors,omitempty"`
}

// RunSweep mengambil batch terbatas order pending yang deadline-nya lewat
// dan mencoba finalize satu per satu. Kegagalan per order diisolasi; satu
// baris bermasalah tidak menggagalkan batch. Order yang keburu dibatalkan
// customer (kalah race di conditional update) dihitung skipped, bukan failed.
func (fs *FinalizationSweeper) RunSweep(now time.Time) SweepResult {
	var result SweepResult

	var orders []models.Order
	if err := fs.DB.
		Where("status = ? AND pending_until < ?", models.OrderStatusPending, now).
		Order("pending_until asc").
		Limit(fs.BatchSize).
		Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("sweep scan failed: %v", err)
		result.Failed++
		result.Errors = append(result.Errors, SweepError{Reason: err.Error()})
		return result
	}

	result.Scanned = len(orders)

	for _, order := range orders {
		_, err := fs.Orders.FinalizeOrder(order.ID)
		if err == nil {
			result.Finalized++
			continue
		}

		var conflict *StateConflictError
		if errors.As(err, &conflict) || errors.Is(err, ErrOrderNotFound) {
			result.Skipped++
			continue
		}

		result.Failed++
		result.Errors = append(result.Errors, SweepError{OrderID: order.ID, Reason: err.Error()})
		utils.ErrorLogger.Printf("sweep: finalize order %d failed: %v", order.ID, err)
	}

	return result
}

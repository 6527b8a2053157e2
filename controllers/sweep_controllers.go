package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
)

type SweepController struct {
	Sweeper *services.FinalizationSweeper
	Secret  string
}

func NewSweepController(sweeper *services.FinalizationSweeper, secret string) *SweepController {
	return &SweepController{Sweeper: sweeper, Secret: secret}
}

// RunSweep -> jalankan satu finalization sweep on demand. Endpoint ini tidak
// pakai JWT tapi wajib membawa shared secret; tanpa secret yang cocok
// request ditolak.
func (swc *SweepController) RunSweep(c *gin.Context) {
	if swc.Secret == "" {
		utils.RespondErrorCode(c, http.StatusForbidden, "forbidden", errors.New("sweep secret is not configured"))
		return
	}
	if c.GetHeader("X-Sweep-Secret") != swc.Secret {
		utils.RespondErrorCode(c, http.StatusForbidden, "forbidden", errors.New("invalid sweep secret"))
		return
	}

	result := swc.Sweeper.RunSweep(time.Now())
	utils.RespondJSON(c, http.StatusOK, "Sweep completed", result)
}

package api

import (
	"net/http"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OverviewResponse struct {
	TotalUsers           int                `json:"total_users"`
	LinkedAccounts       int                `json:"linked_accounts"`
	FundingSources       int                `json:"funding_sources"`
	TotalBalance         float64            `json:"total_balance"`
	TotalTransfers       int                `json:"total_transfers"`
	TransferVolume       float64            `json:"transfer_volume"`
	BalanceByInstitution map[string]float64 `json:"balance_by_institution"`
	RecentActivity       []*models.LogEntry `json:"recent_activity"`
}

type OverviewHandler struct {
	userService service.UserService
	logService  service.LogService
	log         *logrus.Logger
}

func NewOverviewHandler(userService service.UserService, logService service.LogService, log *logrus.Logger) *OverviewHandler {
	return &OverviewHandler{userService: userService, logService: logService, log: log}
}

// @Summary Admin overview
// @Description Totals across every stored user plus the latest audit entries
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OverviewResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Failed to retrieve overview data"
// @Router /admin/overview [get]
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	overview := OverviewResponse{
		TotalUsers:           len(users),
		BalanceByInstitution: make(map[string]float64),
	}
	total := decimal.Zero
	volume := decimal.Zero
	byInstitution := make(map[string]decimal.Decimal)
	for _, user := range users {
		overview.LinkedAccounts += len(user.BankAccounts)
		overview.FundingSources += len(user.FundingSources)
		for _, account := range user.BankAccounts {
			balance := decimal.NewFromFloat(account.Balance)
			total = total.Add(balance)
			byInstitution[account.Institution] = byInstitution[account.Institution].Add(balance)
		}
		// Each transfer appears once per side; count the sender's copy.
		for _, tx := range user.Transactions {
			if tx.Type == models.TransactionTypeTransfer {
				overview.TotalTransfers++
				volume = volume.Add(decimal.NewFromFloat(tx.Amount))
			}
		}
	}
	overview.TotalBalance = total.Round(2).InexactFloat64()
	overview.TransferVolume = volume.Round(2).InexactFloat64()
	for institution, balance := range byInstitution {
		overview.BalanceByInstitution[institution] = balance.Round(2).InexactFloat64()
	}

	recent, err := h.logService.GetAllLogs(c.Request.Context(), 1, 10)
	if err != nil {
		h.log.WithError(err).Warn("failed to load recent activity")
	}
	overview.RecentActivity = recent

	respond(c, http.StatusOK, gin.H{"overview": overview})
}

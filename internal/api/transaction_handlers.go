package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/mehrbod2002/horizon/internal/models"
	"github.com/mehrbod2002/horizon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FundingSourceRequest struct {
	AccessToken   string `json:"access_token" binding:"required"`
	BankAccountID string `json:"bank_account_id" binding:"required"`
}

type TransferRequest struct {
	RecipientPublicID string  `json:"recipient_public_id"`
	Amount            float64 `json:"amount"`
	Description       string  `json:"description"`
}

type BankingHandler struct {
	bankingService service.BankingService
	authService    service.AuthService
	log            *logrus.Logger
}

func NewBankingHandler(bankingService service.BankingService, authService service.AuthService, log *logrus.Logger) *BankingHandler {
	return &BankingHandler{bankingService: bankingService, authService: authService, log: log}
}

// refreshSession mirrors a changed user into the caller's session so the next
// read sees it without waiting for the sync job.
func (h *BankingHandler) refreshSession(c *gin.Context, user *models.User) {
	if err := h.authService.SetSessionUser(c.Request.Context(), c.GetString("session_id"), user); err != nil {
		h.log.WithError(err).Warn("failed to refresh session user")
	}
}

// @Summary Link a bank account
// @Description Fabricates a bank account with a random balance and masked numbers
// @Tags Banking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param credentials body models.BankCredentials false "Display fields for the account"
// @Success 201 {object} map[string]interface{} "Bank account linked"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /accounts/link [post]
func (h *BankingHandler) LinkBankAccount(c *gin.Context) {
	var creds models.BankCredentials
	if err := c.ShouldBindJSON(&creds); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid JSON")
		return
	}

	user, account, err := h.bankingService.LinkBankAccount(c.Request.Context(), c.GetString("user_id"), creds)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.refreshSession(c, user)

	respond(c, http.StatusCreated, gin.H{
		"message":      "Bank account linked successfully",
		"bank_account": account,
		"user":         user,
	})
}

// @Summary Account balance
// @Description Returns the stored balance of one linked account, by id or account_id
// @Tags Banking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bank account id or account_id"
// @Success 200 {object} map[string]interface{} "Balance"
// @Failure 404 {object} map[string]interface{} "Bank account not found"
// @Router /accounts/{id}/balance [get]
func (h *BankingHandler) GetAccountBalance(c *gin.Context) {
	balance, err := h.bankingService.GetAccountBalance(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"balance": balance})
}

// @Summary Create a funding source
// @Description Registers a verified funding source for a linked account
// @Tags Banking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param source body FundingSourceRequest true "Funding source"
// @Success 201 {object} map[string]interface{} "Funding source created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Bank account not found"
// @Router /funding-sources [post]
func (h *BankingHandler) CreateFundingSource(c *gin.Context) {
	var req FundingSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}

	user, source, err := h.bankingService.CreateFundingSource(c.Request.Context(), c.GetString("user_id"), req.AccessToken, req.BankAccountID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.refreshSession(c, user)

	respond(c, http.StatusCreated, gin.H{
		"message":        "Funding source created successfully",
		"funding_source": source,
	})
}

// @Summary Transfer funds
// @Description Sends money to the user addressed by public id or customer id
// @Tags Banking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transfer body TransferRequest true "Transfer"
// @Success 200 {object} map[string]interface{} "Transfer completed"
// @Failure 400 {object} map[string]interface{} "Invalid transfer"
// @Failure 404 {object} map[string]interface{} "Recipient not found"
// @Router /transfers [post]
func (h *BankingHandler) TransferFunds(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON")
		return
	}

	user, tx, err := h.bankingService.TransferFunds(c.Request.Context(), c.GetString("user_id"), req.RecipientPublicID, req.Amount, req.Description)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.refreshSession(c, user)

	respond(c, http.StatusOK, gin.H{
		"message":     "Transfer completed successfully",
		"transaction": tx,
		"user":        user,
	})
}

// @Summary Transaction history
// @Description Returns the caller's transactions, newest first
// @Tags Banking
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Transactions"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /transactions [get]
func (h *BankingHandler) GetTransactions(c *gin.Context) {
	transactions, err := h.bankingService.GetTransactionHistory(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"transactions": transactions})
}

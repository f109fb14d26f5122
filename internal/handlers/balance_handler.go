package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contauno/internal/services"
)

// BalanceHandler serves the period balance views.
type BalanceHandler struct {
	balanceService services.BalanceServicer
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceService services.BalanceServicer) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// GetDayBalance returns one day's ledger and totals
// @Summary     Daily balance
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Param       date path string true "Day (YYYY-MM-DD)"
// @Success     200 {object} services.DayBalance "Day balance"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /balances/day/{date} [get]
func (h *BalanceHandler) GetDayBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	day, err := parseDate(c.Param("date"), "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.balanceService.GetDayBalance(userID, day)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetCalendar returns the per-day totals of a month
// @Summary     Calendar month
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} services.CalendarMonth "Days with activity"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /balances/calendar [get]
func (h *BalanceHandler) GetCalendar(c *gin.Context) {
	h.monthView(c, func(userID string, month time.Month, year int) (interface{}, error) {
		return h.balanceService.GetCalendar(userID, month, year)
	})
}

// GetWeeklyBalance splits a month into Monday weeks
// @Summary     Weekly balance
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} services.WeeklyBalance "Weeks of the month"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /balances/weekly [get]
func (h *BalanceHandler) GetWeeklyBalance(c *gin.Context) {
	h.monthView(c, func(userID string, month time.Month, year int) (interface{}, error) {
		return h.balanceService.GetWeeklyBalance(userID, month, year)
	})
}

// GetMonthlyReport returns a month's summary and full ledger
// @Summary     Monthly report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12 (default current)"
// @Param       year  query int false "Year (default current)"
// @Success     200 {object} services.MonthlyReport "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/monthly [get]
func (h *BalanceHandler) GetMonthlyReport(c *gin.Context) {
	h.monthView(c, func(userID string, month time.Month, year int) (interface{}, error) {
		return h.balanceService.GetMonthlyReport(userID, month, year)
	})
}

func (h *BalanceHandler) monthView(c *gin.Context, load func(userID string, month time.Month, year int) (interface{}, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := load(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMonthlyBalance splits a year into its twelve months
// @Summary     Monthly balance
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Param       year query int false "Year (default current)"
// @Success     200 {object} services.MonthlyBalance "Months of the year"
// @Failure     400 {object} ErrorResponse "Invalid year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /balances/monthly [get]
func (h *BalanceHandler) GetMonthlyBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	year, err := queryInt(c, "year", time.Now().UTC().Year())
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.balanceService.GetMonthlyBalance(userID, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetAnnualBalance returns one entry per year with activity
// @Summary     Annual balance
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Years with activity, oldest first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /balances/annual [get]
func (h *BalanceHandler) GetAnnualBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	years, err := h.balanceService.GetAnnualBalance(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"years": years})
}

package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/deposit"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/pagination"
	"github.com/tuantrunglc/ecom-backend-api/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type DepositHandler struct {
	depositService deposit.Service
	depositQuery   deposit.Query
}

func NewDepositHandler(depositService deposit.Service, depositQuery deposit.Query) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
		depositQuery:   depositQuery,
	}
}

type userRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type depositView struct {
	ID            string               `json:"id"`
	ReferenceCode string               `json:"reference_code"`
	UserID        uint                 `json:"user_id"`
	User          *userRef             `json:"user,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	Description   *string              `json:"description"`
	BankAccount   string               `json:"bank_account"`
	ProofImage    string               `json:"proof_image"`
	Status        models.DepositStatus `json:"status"`
	AdminNote     *string              `json:"admin_note"`
	ProcessedBy   *userRef             `json:"processed_by"`
	ProcessedAt   *time.Time           `json:"processed_at"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func newDepositView(d *models.Deposit) depositView {
	v := depositView{
		ID:            d.ReferenceCode,
		ReferenceCode: d.ReferenceCode,
		UserID:        d.UserID,
		Amount:        d.Amount,
		Description:   d.Description,
		BankAccount:   d.BankAccount,
		ProofImage:    d.ProofImage,
		Status:        d.Status,
		AdminNote:     d.AdminNote,
		ProcessedAt:   d.ProcessedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.User != nil {
		v.User = &userRef{ID: d.User.ID, Name: d.User.Name, Email: d.User.Email}
	}
	if d.Processor != nil {
		v.ProcessedBy = &userRef{ID: d.Processor.ID, Name: d.Processor.Name}
	}
	return v
}

func newDepositViews(deposits []models.Deposit) []depositView {
	views := make([]depositView, 0, len(deposits))
	for i := range deposits {
		views = append(views, newDepositView(&deposits[i]))
	}
	return views
}

// actorFromClaims maps the authenticated claims onto the workflow's caller.
func actorFromClaims(c *fiber.Ctx) (deposit.Actor, bool) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return deposit.Actor{}, false
	}
	return deposit.Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin()}, true
}

// rawAmount accepts the amount as a JSON number or string and keeps its
// exact text so validation sees what the client sent.
func rawAmount(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if strings.HasPrefix(s, `"`) {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted
		}
	}
	return s
}

// CreateDeposit handles POST /api/deposits
func (h *DepositHandler) CreateDeposit(c *fiber.Ctx) error {
	actor, ok := actorFromClaims(c)
	if !ok {
		return response.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount      json.RawMessage `json:"amount"`
		Description *string         `json:"description"`
		BankAccount string          `json:"bank_account"`
		ProofImage  string          `json:"proof_image"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	created, err := h.depositService.Create(c.UserContext(), actor, deposit.CreateInput{
		Amount:      rawAmount(input.Amount),
		Description: input.Description,
		BankAccount: input.BankAccount,
		ProofImage:  input.ProofImage,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "deposit request created", newDepositView(created))
}

// UserDeposits handles GET /api/deposits
func (h *DepositHandler) UserDeposits(c *fiber.Ctx) error {
	actor, ok := actorFromClaims(c)
	if !ok {
		return response.Unauthorized(c, "invalid claims")
	}

	page, err := h.depositQuery.UserHistory(c.UserContext(), actor, pagination.ParseFromRequest(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"deposits":   newDepositViews(page.Deposits),
		"pagination": pagination.NewMeta(page.Params, page.Total),
	})
}

// AdminListDeposits handles GET /api/admin/deposits
func (h *DepositHandler) AdminListDeposits(c *fiber.Ctx) error {
	actor, ok := actorFromClaims(c)
	if !ok {
		return response.Unauthorized(c, "invalid claims")
	}
	ctx := c.UserContext()

	page, err := h.depositQuery.List(ctx, actor, deposit.ListQuery{
		Page:     pagination.ParseFromRequest(c),
		Status:   c.Query("status", "all"),
		Search:   c.Query("search"),
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	stats, err := h.depositQuery.Statistics(ctx, actor)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"deposits":   newDepositViews(page.Deposits),
		"pagination": pagination.NewMeta(page.Params, page.Total),
		"statistics": stats,
	})
}

// UpdateDepositStatus handles PUT /api/admin/deposits/:reference
func (h *DepositHandler) UpdateDepositStatus(c *fiber.Ctx) error {
	actor, ok := actorFromClaims(c)
	if !ok {
		return response.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Status    string  `json:"status"`
		AdminNote *string `json:"admin_note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "invalid request format")
	}

	updated, err := h.depositService.UpdateStatus(c.UserContext(), actor, c.Params("reference"), deposit.UpdateStatusInput{
		Status:    input.Status,
		AdminNote: input.AdminNote,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	view := newDepositView(updated)
	return response.Success(c, "deposit "+string(updated.Status), fiber.Map{
		"id":           view.ID,
		"status":       view.Status,
		"admin_note":   view.AdminNote,
		"processed_by": view.ProcessedBy,
		"processed_at": view.ProcessedAt,
	})
}

// DepositEvents handles GET /api/admin/deposits/:reference/events
func (h *DepositHandler) DepositEvents(c *fiber.Ctx) error {
	actor, ok := actorFromClaims(c)
	if !ok {
		return response.Unauthorized(c, "invalid claims")
	}

	events, err := h.depositQuery.Events(c.UserContext(), actor, c.Params("reference"))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"events": events,
	})
}

package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MDesign-Tech/awegift-sub000/internal/domain"
	"github.com/MDesign-Tech/awegift-sub000/internal/notify"
	"github.com/MDesign-Tech/awegift-sub000/internal/repository"
	"github.com/MDesign-Tech/awegift-sub000/pkg/errors"
)

type quoteService struct {
	repos      *repository.Repositories
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewQuoteService creates a new quotation service
func NewQuoteService(repos *repository.Repositories, dispatcher *notify.Dispatcher, logger *zap.Logger) *quoteService {
	return &quoteService{
		repos:      repos,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateQuote submits a new quotation. Guests are given a surrogate user id.
// Prices start at zero; the admin fills them in later via EditQuote.
func (s *quoteService) CreateQuote(ctx context.Context, identity domain.Identity, req CreateQuoteRequest) (*domain.Quotation, error) {
	userID := identity.UserID
	if userID == "" {
		userID = "guest-" + uuid.NewString()
	}

	lines, err := s.buildLines(ctx, quoteLineInputs(req.Lines))
	if err != nil {
		return nil, err
	}

	quoteNumber, err := s.nextQuoteNumber(ctx)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quotation{
		QuoteNumber: quoteNumber,
		UserID:      userID,
		Email:       req.Email,
		Phone:       req.Phone,
		Status:      domain.QuoteStatusPending,
		UserNote:    req.UserNote,
	}

	s.logger.Info("Creating quotation", zap.String("quote_number", quoteNumber), zap.Int("line_count", len(lines)))
	if err := s.repos.Quotation.Create(ctx, quote); err != nil {
		s.logger.Error("Failed to create quotation", zap.Error(err))
		return nil, err
	}

	for _, line := range lines {
		line.QuoteID = quote.ID
	}
	if err := s.repos.QuoteLine.CreateBatch(ctx, lines); err != nil {
		s.logger.Error("Failed to create quote lines", zap.Error(err))
		return nil, err
	}
	attachLines(quote, lines)

	s.dispatcher.Emit(notify.Event{
		Scope:   domain.NotificationScopeAdmin,
		Type:    "quote_created",
		Title:   "New quotation request",
		Message: fmt.Sprintf("Quotation %s submitted with %d line(s)", quoteNumber, len(lines)),
		URL:     quoteURL(quote.ID),
	})

	return quote, nil
}

// GetQuote returns a quotation visible to the caller, with expiration folded
// in lazily. An admin read marks the quote as viewed.
func (s *quoteService) GetQuote(ctx context.Context, identity domain.Identity, quoteID uuid.UUID) (*domain.Quotation, error) {
	quote, err := s.repos.Quotation.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if identity.Role != domain.RoleAdmin && quote.UserID != identity.UserID {
		return nil, &errors.ErrNotFound{Resource: "quotation", ID: quoteID.String()}
	}

	lines, err := s.repos.QuoteLine.GetByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	attachLines(quote, lines)

	quote.Status = quote.EffectiveStatus(s.now())

	if identity.Role == domain.RoleAdmin && !quote.Viewed {
		if err := s.repos.Quotation.MarkViewed(ctx, quoteID); err == nil {
			quote.Viewed = true
		}
	}

	return quote, nil
}

// ListQuotes lists the caller's quotations; admin sees all
func (s *quoteService) ListQuotes(ctx context.Context, identity domain.Identity, limit, offset int) ([]*domain.Quotation, error) {
	var quotes []*domain.Quotation
	var err error
	if identity.Role == domain.RoleAdmin {
		quotes, err = s.repos.Quotation.List(ctx, limit, offset)
	} else {
		quotes, err = s.repos.Quotation.ListByUserID(ctx, identity.UserID, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, q := range quotes {
		q.Status = q.EffectiveStatus(now)
	}
	return quotes, nil
}

// EditQuote applies an admin pricing edit: the resubmitted line set replaces
// the stored one, every line total and the quote totals are recomputed, and
// a pending quote moves to responded. The customer is notified.
func (s *quoteService) EditQuote(ctx context.Context, identity domain.Identity, quoteID uuid.UUID, req EditQuoteRequest) (*domain.Quotation, []string, error) {
	if !identity.Role.Has(domain.PermRespondQuotes) {
		return nil, nil, &errors.ErrForbidden{Message: "not allowed to respond to quotations"}
	}

	quote, err := s.repos.Quotation.GetByID(ctx, quoteID)
	if err != nil {
		return nil, nil, err
	}

	current := quote.EffectiveStatus(s.now())
	if current.IsTerminal() || current == domain.QuoteStatusAccepted {
		return nil, nil, &errors.ErrInvalidStateTransition{
			Entity: "quotation",
			From:   string(current),
			To:     string(domain.QuoteStatusResponded),
		}
	}

	inputs := make([]quoteLineInput, len(req.Lines))
	for i, l := range req.Lines {
		inputs[i] = quoteLineInput{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			AdminNote: l.AdminNote,
		}
	}
	lines, err := s.buildLines(ctx, inputs)
	if err != nil {
		return nil, nil, err
	}

	// Clamp catalog-backed lines to stock; custom lines have no inventory
	var warnings []string
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		product, err := s.repos.Product.GetByID(ctx, *line.ProductID)
		if err != nil {
			continue
		}
		qty, clamped := domain.ClampQuantity(line.Quantity, product.Stock)
		if clamped {
			warnings = append(warnings, fmt.Sprintf("quantity for %q reduced to available stock (%d)", line.Name, qty))
			line.Quantity = qty
			line.TotalPrice = domain.LineTotal(*line)
		}
	}

	lineValues := make([]domain.QuoteLine, len(lines))
	for i, line := range lines {
		line.QuoteID = quoteID
		lineValues[i] = *line
	}
	totals := domain.CalculateTotals(lineValues, req.Discount, req.DeliveryFee)

	quote.Subtotal = totals.Subtotal
	quote.Discount = req.Discount
	quote.DeliveryFee = req.DeliveryFee
	quote.FinalAmount = totals.FinalAmount
	if req.AdminNote != nil {
		quote.AdminNote = req.AdminNote
	}
	if req.ValidUntil != nil {
		quote.ValidUntil = req.ValidUntil
	}
	if quote.Status == domain.QuoteStatusPending {
		quote.Status = domain.QuoteStatusResponded
	}
	quote.Notified = true

	if err := s.repos.QuoteLine.ReplaceForQuote(ctx, quoteID, lines); err != nil {
		s.logger.Error("Failed to replace quote lines", zap.Error(err))
		return nil, nil, err
	}
	if err := s.repos.Quotation.Update(ctx, quote); err != nil {
		s.logger.Error("Failed to update quotation", zap.Error(err))
		return nil, nil, err
	}
	attachLines(quote, lines)

	s.dispatcher.Emit(notify.Event{
		RecipientID: quote.UserID,
		Scope:       domain.NotificationScopePersonal,
		Type:        "quote_responded",
		Title:       "Your quotation is ready",
		Message:     fmt.Sprintf("Quotation %s has been priced at %.2f", quote.QuoteNumber, quote.FinalAmount),
		URL:         quoteURL(quoteID),
	})

	return quote, warnings, nil
}

// UpdateStatus moves a quotation through its lifecycle: the owning customer
// accepts or rejects from responded, the admin parks it in waiting_customer
// or negotiation. The counterpart party is notified.
func (s *quoteService) UpdateStatus(ctx context.Context, identity domain.Identity, quoteID uuid.UUID, requested domain.QuoteStatus) (*domain.Quotation, error) {
	quote, err := s.repos.Quotation.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	isOwner := quote.UserID == identity.UserID
	if identity.Role != domain.RoleAdmin && !isOwner {
		return nil, &errors.ErrNotFound{Resource: "quotation", ID: quoteID.String()}
	}

	current := quote.EffectiveStatus(s.now())
	if !domain.CanUpdateQuoteStatus(identity.Role, isOwner, current, requested) {
		return nil, &errors.ErrInvalidStateTransition{
			Entity: "quotation",
			From:   string(current),
			To:     string(requested),
		}
	}

	if err := s.repos.Quotation.UpdateStatus(ctx, quoteID, requested); err != nil {
		return nil, err
	}
	quote.Status = requested

	if identity.Role == domain.RoleAdmin {
		s.dispatcher.Emit(notify.Event{
			RecipientID: quote.UserID,
			Scope:       domain.NotificationScopePersonal,
			Type:        "quote_status_changed",
			Title:       "Quotation update",
			Message:     fmt.Sprintf("Quotation %s is now %s", quote.QuoteNumber, requested),
			URL:         quoteURL(quoteID),
		})
	} else {
		s.dispatcher.Emit(notify.Event{
			Scope:   domain.NotificationScopeAdmin,
			Type:    "quote_decision",
			Title:   "Quotation " + string(requested),
			Message: fmt.Sprintf("Quotation %s was %s by the customer", quote.QuoteNumber, requested),
			URL:     quoteURL(quoteID),
		})
	}

	return quote, nil
}

// ToCart converts an accepted quote into cart lines, preserving the quoted
// unit prices instead of live catalog prices. Quantities of catalog-backed
// lines are clamped to current stock, surfaced as warnings.
func (s *quoteService) ToCart(ctx context.Context, identity domain.Identity, quoteID uuid.UUID) ([]CartLine, []string, error) {
	quote, err := s.GetQuote(ctx, identity, quoteID)
	if err != nil {
		return nil, nil, err
	}
	if quote.Status != domain.QuoteStatusAccepted {
		return nil, nil, &errors.ErrForbidden{Message: "quotation must be accepted before ordering"}
	}

	var warnings []string
	var cart []CartLine
	for _, line := range quote.Lines {
		if line.UnitPrice == nil {
			// Unpriced lines cannot be ordered
			warnings = append(warnings, fmt.Sprintf("line %q has no price and was skipped", line.Name))
			continue
		}

		cl := CartLine{
			ProductID: line.ProductID,
			Title:     line.Name,
			UnitPrice: *line.UnitPrice,
			Quantity:  line.Quantity,
		}
		if line.ProductID != nil {
			if product, err := s.repos.Product.GetByID(ctx, *line.ProductID); err == nil {
				cl.SKU = product.SKU
				cl.Thumbnail = product.Thumbnail
				qty, clamped := domain.ClampQuantity(line.Quantity, product.Stock)
				if clamped {
					warnings = append(warnings, fmt.Sprintf("quantity for %q reduced to available stock (%d)", line.Name, qty))
					cl.Quantity = qty
				}
			}
		}
		cart = append(cart, cl)
	}

	return cart, warnings, nil
}

// DeleteQuote removes a quotation. Admin only.
func (s *quoteService) DeleteQuote(ctx context.Context, identity domain.Identity, quoteID uuid.UUID) error {
	if !identity.Role.Has(domain.PermDeleteQuotes) {
		return &errors.ErrForbidden{Message: "not allowed to delete quotations"}
	}
	return s.repos.Quotation.Delete(ctx, quoteID)
}

type quoteLineInput struct {
	ProductID *uuid.UUID
	Name      string
	Quantity  int
	UnitPrice *float64
	AdminNote *string
}

func quoteLineInputs(reqs []QuoteLineRequest) []quoteLineInput {
	inputs := make([]quoteLineInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = quoteLineInput{ProductID: r.ProductID, Name: r.Name, Quantity: r.Quantity}
	}
	return inputs
}

// buildLines validates a candidate line set (known products, named custom
// lines, positive quantities, no duplicates) and materializes domain lines
// with their totals computed.
func (s *quoteService) buildLines(ctx context.Context, inputs []quoteLineInput) ([]*domain.QuoteLine, error) {
	lineValues := make([]domain.QuoteLine, len(inputs))
	lines := make([]*domain.QuoteLine, len(inputs))

	for i, in := range inputs {
		if in.Quantity <= 0 {
			return nil, &errors.ErrValidation{
				Message: "quantity must be positive",
				Fields:  map[string]string{"lines[" + strconv.Itoa(i) + "].quantity": strconv.Itoa(in.Quantity)},
			}
		}

		name := strings.TrimSpace(in.Name)
		if in.ProductID != nil {
			product, err := s.repos.Product.GetByID(ctx, *in.ProductID)
			if err != nil {
				if _, ok := err.(*errors.ErrNotFound); ok {
					return nil, &errors.ErrValidation{
						Message: "unknown product in quotation",
						Fields:  map[string]string{"lines[" + strconv.Itoa(i) + "].product_id": in.ProductID.String()},
					}
				}
				return nil, err
			}
			name = product.Title
		} else if name == "" {
			return nil, &errors.ErrValidation{
				Message: "custom lines need a product name",
				Fields:  map[string]string{"lines[" + strconv.Itoa(i) + "].name": ""},
			}
		}

		line := &domain.QuoteLine{
			ProductID: in.ProductID,
			Name:      name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			AdminNote: in.AdminNote,
		}
		line.TotalPrice = domain.LineTotal(*line)
		lines[i] = line
		lineValues[i] = *line
	}

	if dups := domain.DuplicateLineIndices(lineValues); len(dups) > 0 {
		fields := make(map[string]string, len(dups))
		for _, idx := range dups {
			fields["lines["+strconv.Itoa(idx)+"]"] = "duplicate product"
		}
		return nil, &errors.ErrValidation{Message: "duplicate products in quotation", Fields: fields}
	}

	return lines, nil
}

// nextQuoteNumber produces the human-readable QT-<year>-<seq> id. Sequence
// collisions between concurrent submissions fall under the same
// last-write-wins posture as the rest of the store.
func (s *quoteService) nextQuoteNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	count, err := s.repos.Quotation.CountByYear(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%d-%04d", year, count+1), nil
}

func attachLines(quote *domain.Quotation, lines []*domain.QuoteLine) {
	quote.Lines = make([]domain.QuoteLine, len(lines))
	for i, line := range lines {
		quote.Lines[i] = *line
	}
}

func quoteURL(quoteID uuid.UUID) *string {
	u := "/quotes/" + quoteID.String()
	return &u
}

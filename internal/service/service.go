package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo     store.Repository
	diary    *diary.Recorder
	log      *logrus.Logger
	validate *validator.Validate
}

func New(repo store.Repository, recorder *diary.Recorder, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		repo:     repo,
		diary:    recorder,
		log:      log,
		validate: validator.New(),
	}
}

func (s *Service) requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}
	return nil
}

func (s *Service) checkRequest(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("dữ liệu không hợp lệ: %w", err)
	}
	return nil
}

// record queues a diary event with the acting user attached. The write
// happens on the recorder's worker; a failure there never reaches the
// caller.
func (s *Service) record(ctx context.Context, ev diary.Event) {
	if s.diary == nil {
		return
	}
	if actor, ok := ActorFromContext(ctx); ok {
		ev.Username = actor.Username
	}
	s.diary.Record(ev)
}

// resolveLine classifies an order line reference. A code found in the
// product catalog is a product line; anything else is a service action.
func (s *Service) resolveLine(ctx context.Context, ref string) (domain.LineKind, *domain.Product, error) {
	product, err := s.repo.GetProductByCode(ctx, ref)
	if err != nil {
		if isNotFound(err) {
			return domain.LineKindAction, nil, nil
		}
		return domain.LineKindAction, nil, err
	}
	return domain.LineKindProduct, product, nil
}

// unitPrice prefers the sale price and falls back to the list price.
func unitPrice(p domain.Product) decimal.Decimal {
	if p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.ListPrice
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func safeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.WalkInCustomer
	}
	return name
}

func defaultString(val string, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

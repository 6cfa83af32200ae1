package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shoplane/shoplane-backend/pkg/db"
	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
	"github.com/shoplane/shoplane-backend/pkg/storage/local"
)

// DefaultExportTTL is how long a per-user export payload is served from
// cache before the database is consulted again.
const DefaultExportTTL = 300 * time.Second

// OrderRepository defines the persistence surface the service needs.
type OrderRepository interface {
	Create(context.Context, *models.Order) (*models.Order, error)
	CreateWithProducts(context.Context, *models.Order, []uint) (*models.Order, error)
	ReplaceProducts(context.Context, uint, []uint) error
	Save(context.Context, *models.Order) (*models.Order, error)
	FindByID(context.Context, uint) (*models.Order, error)
	ListAll(context.Context, ListFilters, pagination.Params) ([]models.Order, error)
	ListAllOrdered(context.Context) ([]models.Order, error)
	FindByUser(context.Context, uint) ([]models.Order, error)
	Latest(context.Context, int) ([]models.Order, error)
	Delete(context.Context, uint) error
	UpdateReceipt(context.Context, uint, string) error
}

// UserFinder resolves user references before export or listing.
type UserFinder interface {
	FindByID(context.Context, uint) (*models.User, error)
}

// ExportCache is the shared key/value store backing the per-user export.
type ExportCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	UserOrdersExportKey(userID uint) string
}

// MediaStore persists uploaded files and returns their stored path.
type MediaStore interface {
	Save(relPath string, content io.Reader) (string, error)
}

// CreateOrderInput captures the writable fields on creation.
type CreateOrderInput struct {
	DeliveryAddress string
	Promocode       string
	User            *uint
	Products        []uint
}

// UpdateOrderInput captures the writable fields on update.
type UpdateOrderInput struct {
	User     *uint
	Products []uint
}

// Service exposes order operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Update(ctx context.Context, id uint, input UpdateOrderInput) (*OrderDTO, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*OrderDTO, error)
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]OrderDTO, error)
	ListByUser(ctx context.Context, userID uint) ([]OrderDTO, error)
	Export(ctx context.Context) ([]ExportOrderDTO, error)
	ExportForUser(ctx context.Context, userID uint) (json.RawMessage, error)
	ImportCSV(ctx context.Context, src io.Reader) (int, error)
	Latest(ctx context.Context, limit int) ([]LatestOrderDTO, error)
	SaveReceipt(ctx context.Context, id uint, filename string, content io.Reader) (*OrderDTO, error)
}

// ServiceParams bundles the service dependencies.
type ServiceParams struct {
	Repo      OrderRepository
	Users     UserFinder
	Cache     ExportCache
	Media     MediaStore
	ExportTTL time.Duration
}

type service struct {
	repo      OrderRepository
	users     UserFinder
	cache     ExportCache
	media     MediaStore
	exportTTL time.Duration
}

// NewService wires an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user finder is required")
	}
	ttl := params.ExportTTL
	if ttl <= 0 {
		ttl = DefaultExportTTL
	}
	return &service{
		repo:      params.Repo,
		users:     params.Users,
		cache:     params.Cache,
		media:     params.Media,
		exportTTL: ttl,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	order := &models.Order{
		DeliveryAddress: input.DeliveryAddress,
		Promocode:       input.Promocode,
		UserID:          input.User,
	}
	created, err := s.repo.CreateWithProducts(ctx, order, input.Products)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "order references missing user or product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return s.Get(ctx, created.ID)
}

func (s *service) Update(ctx context.Context, id uint, input UpdateOrderInput) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.UserID = input.User
	if _, err := s.repo.Save(ctx, order); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "order references missing user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order")
	}
	if err := s.repo.ReplaceProducts(ctx, id, input.Products); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeIntegrity, err, "order references missing product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order products")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]OrderDTO, error) {
	records, err := s.repo.ListAll(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return toDTOs(records), nil
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]OrderDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	records, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user orders")
	}
	return toDTOs(records), nil
}

func (s *service) Export(ctx context.Context) ([]ExportOrderDTO, error) {
	records, err := s.repo.ListAllOrdered(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "export orders")
	}
	rows := make([]ExportOrderDTO, len(records))
	for i := range records {
		rows[i] = NewExportOrderDTO(&records[i])
	}
	return rows, nil
}

// ExportForUser serves the user's orders through a read-through cache. A hit
// returns the stored payload untouched; a miss queries, serializes, stores
// with the export TTL, and returns the fresh payload. Writes never
// invalidate the entry, so data may be stale for up to the TTL. That is the
// accepted contract of this endpoint, not an oversight.
func (s *service) ExportForUser(ctx context.Context, userID uint) (json.RawMessage, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	var key string
	if s.cache != nil {
		key = s.cache.UserOrdersExportKey(userID)
		// A miss and a broken cache both fall through to a plain query.
		if cached, err := s.cache.Get(ctx, key); err == nil {
			return json.RawMessage(cached), nil
		}
	}

	records, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "export user orders")
	}
	payload, err := json.Marshal(toDTOs(records))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize user orders")
	}

	if s.cache != nil {
		// Concurrent misses may each write; the entries are identical so the
		// last writer winning is harmless.
		_ = s.cache.Set(ctx, key, string(payload), s.exportTTL)
	}
	return payload, nil
}

func (s *service) Latest(ctx context.Context, limit int) ([]LatestOrderDTO, error) {
	records, err := s.repo.Latest(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load latest orders")
	}
	items := make([]LatestOrderDTO, len(records))
	for i := range records {
		items[i] = LatestOrderDTO{
			PK:        records[i].ID,
			CreatedAt: records[i].CreatedAt,
			Products:  productSetRepr(records[i].Products),
		}
	}
	return items, nil
}

func (s *service) SaveReceipt(ctx context.Context, id uint, filename string, content io.Reader) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media store unavailable")
	}

	relPath, err := s.media.Save(local.OrderReceiptPath(filename), content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store receipt")
	}
	if err := s.repo.UpdateReceipt(ctx, id, relPath); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save receipt path")
	}
	order.Receipt = &relPath
	return NewOrderDTO(order), nil
}

func (s *service) findOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func toDTOs(records []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, len(records))
	for i := range records {
		dtos[i] = *NewOrderDTO(&records[i])
	}
	return dtos
}

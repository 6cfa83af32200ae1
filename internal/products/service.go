package products

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/shoplane/shoplane-backend/pkg/auth"
	"github.com/shoplane/shoplane-backend/pkg/db"
	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/pagination"
	"github.com/shoplane/shoplane-backend/pkg/storage/local"
)

// ProductRepository defines the persistence surface the service needs.
type ProductRepository interface {
	Create(context.Context, *models.Product) (*models.Product, error)
	Save(context.Context, *models.Product) (*models.Product, error)
	FindByID(context.Context, uint) (*models.Product, error)
	ListActive(context.Context) ([]models.Product, error)
	List(context.Context, ListFilters, pagination.Params) ([]models.Product, error)
	ListAllOrdered(context.Context) ([]models.Product, error)
	SetArchived(context.Context, []uint, bool) error
	Delete(context.Context, uint) error
	AddImage(context.Context, *models.ProductImage) (*models.ProductImage, error)
	UpdatePreview(context.Context, uint, string) error
}

// MediaStore persists uploaded files and returns their stored path.
type MediaStore interface {
	Save(relPath string, content io.Reader) (string, error)
}

// CreateProductInput captures the writable fields on creation.
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    int16
}

// UpdateProductInput captures the writable fields on update.
type UpdateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Discount    int16
}

// Service exposes catalog operations.
type Service interface {
	ListActive(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uint) (*ProductDTO, error)
	Create(ctx context.Context, actor *auth.AccessTokenClaims, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, actor *auth.AccessTokenClaims, id uint, input UpdateProductInput) (*ProductDTO, error)
	Archive(ctx context.Context, id uint) error
	BulkArchive(ctx context.Context, ids []uint) error
	BulkUnarchive(ctx context.Context, ids []uint) error
	Delete(ctx context.Context, actor *auth.AccessTokenClaims, id uint) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]ProductDTO, error)
	Export(ctx context.Context) ([]ExportProductDTO, error)
	SavePreview(ctx context.Context, actor *auth.AccessTokenClaims, id uint, filename string, content io.Reader) (*ProductDTO, error)
	AddImage(ctx context.Context, id uint, filename, description string, content io.Reader) (*ProductDTO, error)
}

// ServiceParams bundles the service dependencies.
type ServiceParams struct {
	Repo  ProductRepository
	Media MediaStore
}

type service struct {
	repo  ProductRepository
	media MediaStore
}

// NewService wires a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: params.Repo, media: params.Media}, nil
}

func (s *service) ListActive(ctx context.Context) ([]ProductDTO, error) {
	records, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return toDTOs(records), nil
}

func (s *service) Get(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) Create(ctx context.Context, actor *auth.AccessTokenClaims, input CreateProductInput) (*ProductDTO, error) {
	if actor == nil || !actor.HasPerm(auth.PermProductAdd) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing add permission")
	}

	actorID := actor.UserID
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Discount:    input.Discount,
		CreatedByID: &actorID,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return NewProductDTO(created), nil
}

func (s *service) Update(ctx context.Context, actor *auth.AccessTokenClaims, id uint, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCanEdit(actor, product); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Discount = input.Discount

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return NewProductDTO(saved), nil
}

// Archive is the storefront "delete": the row survives and stays retrievable
// by pk, it only disappears from the active listing.
func (s *service) Archive(ctx context.Context, id uint) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetArchived(ctx, []uint{id}, true); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "archive product")
	}
	return nil
}

func (s *service) BulkArchive(ctx context.Context, ids []uint) error {
	if err := s.repo.SetArchived(ctx, ids, true); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "archive products")
	}
	return nil
}

func (s *service) BulkUnarchive(ctx context.Context, ids []uint) error {
	if err := s.repo.SetArchived(ctx, ids, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unarchive products")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, actor *auth.AccessTokenClaims, id uint) error {
	if actor == nil || !actor.HasPerm(auth.PermProductDelete) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "missing delete permission")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]ProductDTO, error) {
	records, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return toDTOs(records), nil
}

func (s *service) Export(ctx context.Context) ([]ExportProductDTO, error) {
	records, err := s.repo.ListAllOrdered(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "export products")
	}
	rows := make([]ExportProductDTO, len(records))
	for i := range records {
		rows[i] = NewExportProductDTO(&records[i])
	}
	return rows, nil
}

func (s *service) SavePreview(ctx context.Context, actor *auth.AccessTokenClaims, id uint, filename string, content io.Reader) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCanEdit(actor, product); err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media store unavailable")
	}

	relPath, err := s.media.Save(local.ProductPreviewPath(id, filename), content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store preview")
	}
	if err := s.repo.UpdatePreview(ctx, id, relPath); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save preview path")
	}
	product.Preview = &relPath
	return NewProductDTO(product), nil
}

func (s *service) AddImage(ctx context.Context, id uint, filename, description string, content io.Reader) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media store unavailable")
	}

	relPath, err := s.media.Save(local.ProductImagePath(id, filename), content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
	}
	image, err := s.repo.AddImage(ctx, &models.ProductImage{
		ProductID:   id,
		Image:       relPath,
		Description: description,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save image record")
	}
	product.Images = append(product.Images, *image)
	return NewProductDTO(product), nil
}

func (s *service) findProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

// checkCanEdit applies the ownership predicate: superusers may always edit,
// everyone else needs the change permission and must be the creator.
func checkCanEdit(actor *auth.AccessTokenClaims, product *models.Product) error {
	if actor == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.IsSuperuser {
		return nil
	}
	if !actor.HasPerm(auth.PermProductChange) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "missing change permission")
	}
	if product.CreatedByID == nil || *product.CreatedByID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the creator may edit this product")
	}
	return nil
}

func toDTOs(records []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(records))
	for i := range records {
		dtos[i] = *NewProductDTO(&records[i])
	}
	return dtos
}

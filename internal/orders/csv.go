package orders

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shoplane/shoplane-backend/pkg/db"
	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// csvColumns are the required header columns, in any order.
var csvColumns = []string{"delivery_address", "promocode", "user", "products"}

// ImportCSV loads orders from a CSV stream. The header must name every
// required column; the products cell lists product ids joined by ".".
// Each row commits in its own transaction, and the first bad row aborts the
// import, leaving earlier rows in place. Returns the number of orders
// created.
func (s *service) ImportCSV(ctx context.Context, src io.Reader) (int, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv header")
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range csvColumns {
		if _, ok := index[name]; !ok {
			return 0, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("csv header is missing column %q", name))
		}
	}

	created := 0
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("row %d: malformed csv", row))
		}

		order := &models.Order{
			DeliveryAddress: record[index["delivery_address"]],
			Promocode:       record[index["promocode"]],
		}
		userID, err := parseCSVUint(record[index["user"]])
		if err != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("row %d: invalid user id", row))
		}
		order.UserID = &userID

		productIDs, err := parseProductIDs(record[index["products"]])
		if err != nil {
			return created, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("row %d: invalid product list", row))
		}

		if _, err := s.repo.CreateWithProducts(ctx, order, productIDs); err != nil {
			if db.IsForeignKeyViolation(err) {
				return created, pkgerrors.Wrap(pkgerrors.CodeIntegrity, err,
					fmt.Sprintf("row %d: references missing user or product", row))
			}
			return created, pkgerrors.Wrap(pkgerrors.CodeInternal, err,
				fmt.Sprintf("row %d: create order", row))
		}
		created++
	}
	return created, nil
}

// parseProductIDs splits a "."-joined product id list, e.g. "1.2.3".
func parseProductIDs(cell string) ([]uint, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	parts := strings.Split(cell, ".")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := parseCSVUint(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseCSVUint(cell string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(cell), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

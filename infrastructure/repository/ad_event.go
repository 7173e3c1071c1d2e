package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/ad-review-dashboard/infrastructure/database/postgres"
	"github.com/vfg2006/ad-review-dashboard/internal/config"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
	"github.com/vfg2006/ad-review-dashboard/internal/usecases/moderation"
	"github.com/vfg2006/ad-review-dashboard/pkg/log"
)

const (
	adsDetailsTable       = "fb_ads_details_v3"
	childAdAccountsTable  = "fb_child_ad_accounts"
	businessManagersTable = "fb_child_business_managers"
	businessProfileTable  = "business_profile"
	adsSpendTable         = "fb_ads_age_gender_metrics_v3"

	// feedback global vem como "{TIPO=descrição}"
	feedbackExpr = "REPLACE(REPLACE(JSON_EXTRACT_PATH_TEXT(fad.ad_review_feedback, 'global'), '{', ''), '}', '')"
	ownerRole    = "json_extract_path_text(json_extract_array_element_text(business_user_ids, 0), 'role')"
	ownerUserID  = "json_extract_path_text(json_extract_array_element_text(business_user_ids, 0), 'business_user_id')"
)

var requiredColumns = []string{"ad_account_id", "ad_id", "ad_status", "created_at", "status_change_date"}

var ErrMissingColumns = errors.New("missing required columns")

//go:generate mockgen -source=ad_event.go -destination=mocks/ad_event.go -package=mocks

type AdEventRepository interface {
	FetchAdEvents(ctx context.Context) (*domain.AdEventBatch, error)
}

type adEventRepository struct {
	conn postgres.Queryer
	cfg  config.Database
}

func NewAdEventRepository(conn postgres.Queryer, cfg config.Database) AdEventRepository {
	return &adEventRepository{
		conn: conn,
		cfg:  cfg,
	}
}

// BuildAdEventsQuery monta a leitura dos eventos de moderação: a última edição de cada
// anúncio, status colapsado em APPROVED/DISAPPROVED e o feedback separado em tipo e descrição.
// Strings vazias viram NULL.
func BuildAdEventsQuery(cfg config.Database) (string, []interface{}, error) {
	table := func(name string) string {
		if cfg.Schema == "" {
			return name
		}
		return cfg.Schema + "." + name
	}

	createdAt, statusChangeAt := "fad.created_date", "fad.edited_at"
	if cfg.Precision == "date" {
		createdAt, statusChangeAt = "DATE(fad.created_date)", "DATE(fad.edited_at)"
	}

	latest := squirrel.
		Select(
			"fad.ad_account_id",
			"fad.ad_id",
			"CASE WHEN fad.effective_status = 'DISAPPROVED' THEN 'DISAPPROVED' ELSE 'APPROVED' END AS ad_status",
			"NULLIF(fad.effective_status, '') AS effective_status",
			createdAt+" AS created_at",
			statusChangeAt+" AS status_change_date",
			"NULLIF(SPLIT_PART("+feedbackExpr+", '=', 1), '') AS error_type",
			"NULLIF(LTRIM(SPLIT_PART("+feedbackExpr+", '=', 2)), '') AS error_description",
			"ROW_NUMBER() OVER (PARTITION BY fad.ad_id ORDER BY DATE(fad.edited_at) DESC) AS rw",
		).
		From(table(adsDetailsTable) + " fad").
		Join(table(childAdAccountsTable) + " fcaa ON fad.ad_account_id = fcaa.ad_account_id")

	owners := fmt.Sprintf(
		"(SELECT id, %s AS buid FROM %s WHERE %s = 'owner') bp ON e.app_business_id = bp.id",
		ownerUserID, table(businessProfileTable), ownerRole,
	)

	query := squirrel.
		Select(
			"bp.buid",
			"a.ad_account_id",
			"a.ad_id",
			"a.ad_status",
			"a.effective_status",
			"a.created_at",
			"a.status_change_date",
			"a.error_type",
			"a.error_description",
		).
		FromSelect(latest, "a").
		LeftJoin(table(childAdAccountsTable) + " d ON a.ad_account_id = d.ad_account_id").
		LeftJoin(table(businessManagersTable) + " e ON e.id = d.app_business_manager_id").
		LeftJoin(owners)

	if cfg.IncludeSpend {
		query = query.
			Column("b.spend").
			LeftJoin("(SELECT ad_id, SUM(spend) AS spend FROM " + table(adsSpendTable) + " GROUP BY ad_id) b ON a.ad_id = b.ad_id")
	}

	sqlQuery, args, err := query.
		Where("a.rw = 1").
		Where(squirrel.GtOrEq{"a.status_change_date": cfg.SinceDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return sqlQuery, args, nil
}

func (r *adEventRepository) FetchAdEvents(ctx context.Context) (*domain.AdEventBatch, error) {
	logger := log.ForContext(ctx)

	query, args, err := BuildAdEventsQuery(r.cfg)
	if err != nil {
		return nil, moderation.NewFetchError(moderation.FetchUnavailable, err, "build query")
	}

	if r.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.QueryTimeout)
		defer cancel()
	}

	startedAt := time.Now()
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, moderation.NewFetchError(moderation.FetchUnavailable, errors.Wrap(err, "warehouse: query ad events"), "")
	}
	defer rows.Close()

	scanner, err := newAdEventScanner(rows)
	if err != nil {
		return nil, err
	}

	batch := &domain.AdEventBatch{
		Rows:     make([]domain.RawRow, 0),
		HasSpend: scanner.hasSpend,
	}

	for rows.Next() {
		row, err := scanner.scan(rows)
		if err != nil {
			return nil, moderation.NewFetchError(moderation.FetchMalformed, errors.Wrap(err, "warehouse: scan ad event"), "")
		}
		batch.Rows = append(batch.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, moderation.NewFetchError(moderation.FetchUnavailable, errors.Wrap(err, "warehouse: iterate ad events"), "")
	}

	batch.FetchedAt = time.Now().UTC()

	logger.WithFields(log.Fields{
		"rows":        len(batch.Rows),
		"has_spend":   batch.HasSpend,
		"duration_ms": time.Since(startedAt).Milliseconds(),
	}).Info("warehouse: eventos de anúncios lidos")

	return batch, nil
}

// adEventScanner lê as colunas pelo nome, então a ordem no SELECT não importa
// e colunas extras são ignoradas.
type adEventScanner struct {
	columns  []string
	dateOnly map[string]bool
	hasSpend bool
}

func newAdEventScanner(rows *sql.Rows) (*adEventScanner, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, moderation.NewFetchError(moderation.FetchMalformed, errors.Wrap(err, "warehouse: read columns"), "")
	}

	present := make(map[string]bool, len(columns))
	for i, column := range columns {
		columns[i] = strings.ToLower(column)
		present[columns[i]] = true
	}

	missing := make([]string, 0)
	for _, column := range requiredColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, moderation.NewFetchError(moderation.FetchMalformed, ErrMissingColumns, strings.Join(missing, ", "))
	}

	dateOnly := make(map[string]bool)
	if types, err := rows.ColumnTypes(); err == nil {
		for i, columnType := range types {
			if strings.EqualFold(columnType.DatabaseTypeName(), "DATE") {
				dateOnly[columns[i]] = true
			}
		}
	}

	return &adEventScanner{
		columns:  columns,
		dateOnly: dateOnly,
		hasSpend: present["spend"],
	}, nil
}

func (s *adEventScanner) scan(rows *sql.Rows) (domain.RawRow, error) {
	var (
		buid, accountID, adID, status, subStatus sql.NullString
		errorType, errorDescription              sql.NullString
		createdAt, statusChangeAt                sql.NullTime
		spend                                    decimal.NullDecimal
	)

	dest := make([]interface{}, len(s.columns))
	for i, column := range s.columns {
		switch column {
		case "buid":
			dest[i] = &buid
		case "ad_account_id":
			dest[i] = &accountID
		case "ad_id":
			dest[i] = &adID
		case "ad_status":
			dest[i] = &status
		case "effective_status":
			dest[i] = &subStatus
		case "created_at":
			dest[i] = &createdAt
		case "status_change_date":
			dest[i] = &statusChangeAt
		case "error_type":
			dest[i] = &errorType
		case "error_description":
			dest[i] = &errorDescription
		case "spend":
			dest[i] = &spend
		default:
			dest[i] = new(interface{})
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return domain.RawRow{}, err
	}

	row := domain.RawRow{
		BusinessUnitID:   nullableString(buid),
		AdAccountID:      strings.TrimSpace(accountID.String),
		AdID:             strings.TrimSpace(adID.String),
		Status:           domain.AdStatus(status.String),
		SubStatus:        nullableString(subStatus),
		CreatedAt:        s.moment(createdAt, "created_at"),
		StatusChangeAt:   s.moment(statusChangeAt, "status_change_date"),
		ErrorType:        nullableString(errorType),
		ErrorDescription: nullableString(errorDescription),
	}
	if spend.Valid {
		value := spend.Decimal
		row.Spend = &value
	}

	return row, nil
}

func (s *adEventScanner) moment(value sql.NullTime, column string) *domain.Moment {
	if !value.Valid {
		return nil
	}
	return &domain.Moment{Time: value.Time, DateOnly: s.dateOnly[column]}
}

// nullableString trata string vazia como nula, como sai do SPLIT_PART do warehouse.
func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	trimmed := strings.TrimSpace(value.String)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

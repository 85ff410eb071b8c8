package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/config"
	"invoicedash/internal/models"
	"invoicedash/internal/repositories"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const summaryKey = "invoicedash:summary"

// SummaryService computes and caches the dashboard overview cards
type SummaryService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	cacheService caching.CacheService
	ttl          time.Duration
	now          func() time.Time
}

func NewSummaryService(invoiceRepo repositories.InvoiceRepository, customerRepo repositories.CustomerRepository, cacheService caching.CacheService, ttl time.Duration) *SummaryService {
	return &SummaryService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		cacheService: cacheService,
		ttl:          ttl,
		now:          time.Now,
	}
}

// CardData serves the cached summary, computing it on a miss
func (a *SummaryService) CardData(ctx context.Context) (*models.CardData, error) {
	var data models.CardData
	hit, err := a.cacheService.GetJSON(ctx, summaryKey, &data)
	if err != nil {
		config.GetLogger().WithField("module", "analytics").Warnf("summary cache read failed: %v", err)
	}
	if hit {
		return &data, nil
	}
	return a.Refresh(ctx)
}

// Refresh recomputes the summary from the store and caches it
func (a *SummaryService) Refresh(ctx context.Context) (*models.CardData, error) {
	var (
		invoiceCount  int
		customerCount int
		sums          map[models.InvoiceStatus]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		invoiceCount, err = a.invoiceRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		customerCount, err = a.customerRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		sums, err = a.invoiceRepo.SumByStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch card data: %w", err)
	}

	data := &models.CardData{
		NumberOfInvoices:     invoiceCount,
		NumberOfCustomers:    customerCount,
		TotalPaidInvoices:    FormatCurrency(sums[models.InvoiceStatusPaid]),
		TotalPendingInvoices: FormatCurrency(sums[models.InvoiceStatusPending]),
		RefreshedAt:          a.now().UTC(),
	}

	if err := a.cacheService.SetJSON(ctx, summaryKey, data, a.ttl); err != nil {
		config.GetLogger().WithField("module", "analytics").Warnf("summary cache write failed: %v", err)
	}
	return data, nil
}

// FormatCurrency renders cents as US dollars, e.g. 123456 -> "$1,234.56"
func FormatCurrency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	fixed := decimal.New(cents, -2).StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

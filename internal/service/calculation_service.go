package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/apperrors"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/config"
	"github.com/mverhagen/Tax-Lot-Optimizer-Backend/internal/model"
)

// CalculationRequest is the full input of one optimizer invocation.
// Exactly one of Target and CashRaise must be set, matching Mode.
type CalculationRequest struct {
	Lots             []model.TaxLot
	Target           *model.TargetSpec
	CashRaise        *model.CashRaiseSpec
	Mode             model.Mode
	Strategy         model.Strategy
	Tolerance        float64
	WashSale         model.WashSaleConfig
	RecentPurchases  []model.Purchase
	PlannedPurchases []model.Purchase

	// AsOf anchors the wash-sale window and term derivation. Callers
	// that need byte-identical audit output must set it explicitly;
	// when zero it defaults to the current day.
	AsOf time.Time
}

// CalculationService merges the selectors' output with wash-sale
// annotations into the final recommendation set and summary. It holds
// no state across invocations: every calculation works on its own
// in-memory snapshot.
type CalculationService struct {
	cfg            config.OptimizerConfig
	normalizer     *NormalizerService
	selector       *SelectorService
	washSale       *WashSaleService
	catalogService *CatalogService
	now            func() time.Time
}

// NewCalculationService creates a new CalculationService with the provided dependencies.
func NewCalculationService(
	cfg config.OptimizerConfig,
	normalizer *NormalizerService,
	selector *SelectorService,
	washSale *WashSaleService,
	catalogService *CatalogService,
) *CalculationService {
	return &CalculationService{
		cfg:            cfg,
		normalizer:     normalizer,
		selector:       selector,
		washSale:       washSale,
		catalogService: catalogService,
		now:            time.Now,
	}
}

// Calculate runs one optimizer invocation.
//
// Pipeline:
//  1. Normalize and validate the lot pool; row-level problems become
//     warnings, an unusable pool aborts.
//  2. Load the fund-catalog snapshot, so no I/O happens afterwards.
//  3. Run the mode's selector. In target mode the short-term and
//     long-term buckets are independent and run concurrently; results
//     are assembled in fixed bucket order so output stays
//     deterministic.
//  4. Screen loss sales for wash-sale conflicts and annotate.
//  5. Assemble summary and warnings.
//
// Row- and lot-level issues accumulate into the returned warnings; only
// whole-request structural failures return an error.
func (s *CalculationService) Calculate(ctx context.Context, req CalculationRequest) (model.CalculationResult, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = s.now().UTC().Truncate(24 * time.Hour)
	}

	lots, warnings, err := s.normalizer.NormalizeLots(req.Lots, asOf)
	if err != nil {
		return model.CalculationResult{}, err
	}

	catalog, err := s.catalogService.Snapshot()
	if err != nil {
		return model.CalculationResult{}, err
	}

	var recs []model.Recommendation
	summary := model.Summary{
		Mode:       req.Mode,
		Disclaimer: model.CrossAccountDisclaimer,
	}

	switch req.Mode {
	case model.ModeTargetPrecision:
		if req.Target == nil {
			return model.CalculationResult{}, apperrors.ErrMissingSpec
		}
		target := *req.Target
		summary.TargetST = target.TargetST
		summary.TargetLT = target.TargetLT
		summary.RealizedST = target.RealizedST
		summary.RealizedLT = target.RealizedLT

		var bucketRecs, bucketWarnings = s.runTargetBuckets(ctx, target, lots, req.Strategy, req.Tolerance)
		recs = bucketRecs
		warnings = append(warnings, bucketWarnings...)

	case model.ModeCashMaximization:
		if req.CashRaise == nil {
			return model.CalculationResult{}, apperrors.ErrMissingSpec
		}
		spec := *req.CashRaise
		summary.CashRequested = spec.CashNeeded

		cashRecs, cashWarnings := s.selector.SelectForCash(spec.Remaining(), lots)
		recs = cashRecs
		warnings = append(warnings, cashWarnings...)

	default:
		return model.CalculationResult{}, apperrors.ErrInvalidMode
	}

	annotated, violations, washWarnings := s.washSale.Annotate(
		recs, lots, req.RecentPurchases, req.PlannedPurchases, catalog, req.WashSale, asOf)
	warnings = append(warnings, washWarnings...)

	for _, rec := range annotated {
		summary.TotalProceeds += rec.Proceeds
		switch rec.Term {
		case model.TermShort:
			summary.AchievedST += rec.ActualGain
		case model.TermLong:
			summary.AchievedLT += rec.ActualGain
		}
	}
	summary.TotalProceeds = round2(summary.TotalProceeds)
	summary.AchievedST = round2(summary.AchievedST)
	summary.AchievedLT = round2(summary.AchievedLT)
	summary.EstimatedTaxCost = round2(
		summary.AchievedST*s.cfg.EstTaxRateST + summary.AchievedLT*s.cfg.EstTaxRateLT)
	summary.WashSaleCount = len(violations)

	if req.Mode == model.ModeCashMaximization && req.CashRaise != nil {
		summary.CashRaised = round2(req.CashRaise.CurrentCash + summary.TotalProceeds)
	}

	if annotated == nil {
		annotated = []model.Recommendation{}
	}
	if warnings == nil {
		warnings = []string{}
	}

	return model.CalculationResult{
		Recommendations: annotated,
		Summary:         summary,
		Warnings:        warnings,
	}, nil
}

// runTargetBuckets computes the short-term and long-term selections
// concurrently. The buckets draw from disjoint lot pools, so they never
// coordinate; output is assembled short-term first regardless of which
// bucket finishes first.
func (s *CalculationService) runTargetBuckets(
	ctx context.Context,
	target model.TargetSpec,
	lots []model.TaxLot,
	strategy model.Strategy,
	tolerance float64,
) ([]model.Recommendation, []string) {

	if strategy == model.StrategyExact {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ExactTimeout)
		defer cancel()
	}

	var (
		stRecs, ltRecs         []model.Recommendation
		stWarnings, ltWarnings []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stRecs, stWarnings = s.selector.SelectForTarget(
			gctx, target.RemainingST(), lots, model.TermShort, strategy, tolerance)
		return nil
	})
	g.Go(func() error {
		ltRecs, ltWarnings = s.selector.SelectForTarget(
			gctx, target.RemainingLT(), lots, model.TermLong, strategy, tolerance)
		return nil
	})
	_ = g.Wait() // the selectors report problems as warnings, never errors

	recs := append([]model.Recommendation{}, stRecs...)
	recs = append(recs, ltRecs...)
	warnings := append([]string{}, stWarnings...)
	warnings = append(warnings, ltWarnings...)
	return recs, warnings
}

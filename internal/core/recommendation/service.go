package recommendation

import (
	"context"
	"errors"
	"fmt"

	"meal-deals/internal/core/ai/provider"
	"meal-deals/internal/core/menu"
	"meal-deals/internal/pkg/common"
	"meal-deals/internal/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Filter policies
const (
	PolicyScored   = "scored"
	PolicyMealTime = "meal_time"
)

// ErrShortfall recorded when the model yields fewer than MaxBundles usable bundles
var ErrShortfall = errors.New("generation returned fewer usable bundles than requested")

// MenuSource branch menu and popularity lookup
type MenuSource interface {
	Menu(ctx context.Context, branch int) ([]menu.Item, error)
	Popularity(ctx context.Context, branch int) map[string]int
}

// Generator chat completion backend
type Generator interface {
	Generate(ctx context.Context, req *provider.Request) (*provider.Response, error)
}

// Options recommendation settings
type Options struct {
	Policy      string
	MaxItems    int
	Model       string
	Temperature float64
	MaxTokens   int
}

// Service recommendation pipeline
type Service struct {
	menus     MenuSource
	generator Generator
	opts      Options
}

// NewService creates a Service. A nil generator always uses the fallback bundler.
func NewService(menus MenuSource, generator Generator, opts Options) *Service {
	if opts.Policy == "" {
		opts.Policy = PolicyScored
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return &Service{
		menus:     menus,
		generator: generator,
		opts:      opts,
	}
}

// Recommend returns up to MaxBundles bundles for branch. Generation failures
// are absorbed by the fallback bundler; only invalid preferences and
// data-source failures are returned as errors.
func (s *Service) Recommend(ctx context.Context, branch int, prefs Preferences) (*Result, error) {
	if prefs.PartySize < 1 {
		return nil, common.ErrInvalidPreferences.Wrap(common.NewValidationError("number_of_people must be at least 1"))
	}

	env := ComputeBudgetEnvelope(prefs.PartySize, prefs.BudgetTier, prefs.Mood)

	items, popularity, err := s.load(ctx, branch)
	if err != nil {
		return nil, err
	}

	candidates := s.filter(items, prefs, popularity)
	result := &Result{Budget: env, Bundles: []Bundle{}}

	if len(candidates) == 0 {
		result.Strategy = StrategyEmpty
		s.record(branch, result, len(items), 0)
		return result, nil
	}

	generated, reason := s.generate(ctx, candidates, prefs, env)

	bundles := generated
	if len(generated) < MaxBundles {
		if reason == nil {
			reason = ErrShortfall
		}
		result.FallbackReason = reason
		bundles = append(bundles, BuildFallback(candidates, prefs.PartySize, env.Hard, len(generated))...)
	}
	if len(bundles) > MaxBundles {
		bundles = bundles[:MaxBundles]
	}
	for i := range bundles {
		bundles[i].Number = i + 1
	}

	result.Bundles = bundles
	switch {
	case len(bundles) == 0:
		result.Strategy = StrategyEmpty
	case len(generated) == 0:
		result.Strategy = StrategyFallback
	case len(bundles) > len(generated):
		result.Strategy = StrategyMixed
	default:
		result.Strategy = StrategyGenerated
	}

	s.record(branch, result, len(items), len(candidates))
	return result, nil
}

// load fetches the menu and, for the scored policy, popularity in parallel
func (s *Service) load(ctx context.Context, branch int) ([]menu.Item, map[string]int, error) {
	var (
		items      []menu.Item
		popularity map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.menus.Menu(gctx, branch)
		return err
	})
	if s.opts.Policy == PolicyScored {
		g.Go(func() error {
			popularity = s.menus.Popularity(gctx, branch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if !errors.Is(err, common.ErrDataSource) {
			err = common.ErrDataSource.Wrap(err)
		}
		return nil, nil, err
	}
	return items, popularity, nil
}

func (s *Service) filter(items []menu.Item, prefs Preferences, popularity map[string]int) []ScoredItem {
	if s.opts.Policy == PolicyMealTime {
		return unscored(FilterByMealTime(items, prefs.MealTime))
	}
	return ScoreItems(items, prefs, popularity, s.opts.MaxItems)
}

// generate asks the model for bundles. The error is the reason the fallback
// bundler has to take over entirely, nil when the model response was usable.
func (s *Service) generate(ctx context.Context, items []ScoredItem, prefs Preferences, env BudgetEnvelope) ([]Bundle, error) {
	if s.generator == nil {
		return nil, common.ErrGenerationUnavailable.Wrap(errors.New("no generator configured"))
	}

	req, err := BuildRequest(items, prefs, env, RequestOptions{
		Model:        s.opts.Model,
		Temperature:  s.opts.Temperature,
		MaxTokens:    s.opts.MaxTokens,
		IncludeScore: s.opts.Policy == PolicyScored,
	})
	if err != nil {
		return nil, common.ErrGenerationUnavailable.Wrap(err)
	}

	resp, err := s.generator.Generate(ctx, req)
	if err != nil {
		if !errors.Is(err, common.ErrGenerationUnavailable) {
			err = common.ErrGenerationUnavailable.Wrap(err)
		}
		common.LogWarn("generation unavailable, using fallback bundler", zap.Error(err))
		return nil, err
	}
	if resp == nil {
		return nil, common.ErrGenerationUnavailable.Wrap(fmt.Errorf("empty response"))
	}

	bundles, err := AssembleBundles(resp.Content, items, prefs.PartySize, env.Hard)
	if err != nil {
		common.LogWarn("generation response unusable, using fallback bundler",
			zap.Error(err),
			zap.Int("response_length", len(resp.Content)),
		)
		return nil, err
	}
	return bundles, nil
}

func (s *Service) record(branch int, result *Result, menuSize, candidates int) {
	metrics.Recommendations.WithLabelValues(string(result.Strategy)).Inc()

	fields := []zap.Field{
		zap.Int("branch", branch),
		zap.String("strategy", string(result.Strategy)),
		zap.Int("bundles", len(result.Bundles)),
		zap.Int("menu_items", menuSize),
		zap.Int("candidates", candidates),
		zap.Int("hard_budget", result.Budget.Hard),
	}
	if result.FallbackReason != nil {
		fields = append(fields, zap.NamedError("fallback_reason", result.FallbackReason))
	}
	common.LogInfo("recommendation built", fields...)
}

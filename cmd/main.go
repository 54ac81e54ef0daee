package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	dataagg "github.com/yungbote/driveline-backend/internal/data/aggregates"
	"github.com/yungbote/driveline-backend/internal/data/db"
	"github.com/yungbote/driveline-backend/internal/data/repos"
	"github.com/yungbote/driveline-backend/internal/platform/logger"
	"github.com/yungbote/driveline-backend/internal/services"
	"github.com/yungbote/driveline-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	dailyPassCap := utils.GetEnvAsInt("DAILY_PASS_CAP", 0, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Migrations and a connectivity probe run together; both must pass before
	// the engine takes traffic.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return postgresService.AutoMigrateAll()
	})
	g.Go(func() error {
		return thePG.WithContext(gctx).Exec("SELECT 1").Error
	})
	if err := g.Wait(); err != nil {
		log.Fatal("Postgres bootstrap failed", "error", err)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	orgRepo := repos.NewOrganizationRepo(thePG, log)
	membershipRepo := repos.NewOrgMembershipRepo(thePG, log)
	featureFlagRepo := repos.NewOrgFeatureFlagRepo(thePG, log)
	skillRatingRepo := repos.NewSkillRatingRepo(thePG, log)
	xpWalletRepo := repos.NewXPWalletRepo(thePG, log)
	xpLedgerRepo := repos.NewXPLedgerRepo(thePG, log)
	ladderProgressRepo := repos.NewLadderProgressRepo(thePG, log)
	channelProgressRepo := repos.NewChannelProgressRepo(thePG, log)
	badgeGrantRepo := repos.NewBadgeGrantRepo(thePG, log)

	// Aggregates
	log.Info("Setting up Aggregates from main...")
	base := dataagg.BaseDeps{
		DB:    thePG,
		Log:   log,
		Hooks: dataagg.NewLogHooks(log),
	}
	gate := dataagg.NewAccessGateResolver(membershipRepo, featureFlagRepo, log)
	exerciseAgg := dataagg.NewExerciseAggregate(dataagg.ExerciseAggregateDeps{
		Base:    base,
		Users:   userRepo,
		Ratings: skillRatingRepo,
		Wallets: xpWalletRepo,
		Ledger:  xpLedgerRepo,
		Gate:    gate,
	})
	progressionAgg := dataagg.NewProgressionAggregate(dataagg.ProgressionAggregateDeps{
		Base:     base,
		Users:    userRepo,
		Ladder:   ladderProgressRepo,
		Channel:  channelProgressRepo,
		Wallets:  xpWalletRepo,
		Ledger:   xpLedgerRepo,
		Badges:   badgeGrantRepo,
		Gate:     gate,
		DailyCap: dailyPassCap,
	})

	// Services
	log.Info("Setting up Services from main...")
	userService := services.NewUserService(thePG, log, userRepo)
	orgService := services.NewOrgService(thePG, log, orgRepo, membershipRepo, featureFlagRepo, userRepo)
	coachingService := services.NewCoachingService(services.CoachingServiceDeps{
		DB:          thePG,
		Log:         log,
		Exercise:    exerciseAgg,
		Progression: progressionAgg,
		Ratings:     skillRatingRepo,
		Wallets:     xpWalletRepo,
		Ledger:      xpLedgerRepo,
		Ladder:      ladderProgressRepo,
		Channel:     channelProgressRepo,
		Badges:      badgeGrantRepo,
	})
	_ = userService
	_ = orgService
	_ = coachingService

	log.Info("Coaching engine ready")
	<-ctx.Done()
	log.Info("Shutting down")
}

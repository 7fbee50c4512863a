package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hangilict/estate_crm_end/config"
	"github.com/hangilict/estate_crm_end/controllers"
	"github.com/hangilict/estate_crm_end/middleware"
	"github.com/hangilict/estate_crm_end/repository"
	"github.com/hangilict/estate_crm_end/routes"
	"github.com/hangilict/estate_crm_end/service"
	"github.com/hangilict/estate_crm_end/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// 로그 초기화
	utils.InitLogger()

	// 설정 로드
	cfg := config.LoadConfig()

	// Gin 모드 설정
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 데이터베이스 초기화
	if err := repository.InitMongoDB(cfg.MongoURI, cfg.MongoDB); err != nil {
		utils.Logger.Fatal().Err(err).Msg("MongoDB 연결 실패")
	}

	defer repository.CloseMongoDB()

	// 일일 등록 한도 가드 초기화
	controllers.InitQuotaGuard(service.NewQuotaGuard(
		int64(cfg.DailyBaseLimit), service.NewClock(cfg.Timezone)))

	// Gin 인스턴스 생성
	router := gin.New()

	// 미들웨어 적용
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware())

	// 라우트 등록
	routes.RegisterRoutes(router)

	// 시스템 초기화
	utils.Logger.Info().Msg("시스템 초기화 시작...")
	if err := repository.EnsureIndexes(); err != nil {
		utils.Logger.Error().Err(err).Msg("인덱스 초기화 실패")
	}
	if err := repository.InitializeAdminAccount(); err != nil {
		utils.Logger.Error().Err(err).Msg("관리자 계정 초기화 실패")
	}
	utils.Logger.Info().Msg("시스템 초기화 완료")

	// HTTP 서버 설정
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 서버 기동
	go func() {
		utils.Logger.Info().Msgf("서버 시작, 포트: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal().Err(err).Msg("서버 시작 실패")
		}
	}()

	// 우아한 종료
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Logger.Info().Msg("서버 종료 중...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Fatal().Err(err).Msg("서버 종료 비정상")
	}

	utils.Logger.Info().Msg("서버가 정상 종료되었습니다")
}

package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/envelopay/backend/api"
	"github.com/envelopay/backend/internal/auth"
	"github.com/envelopay/backend/internal/config"
	v1 "github.com/envelopay/backend/internal/controllers/v1"
	"github.com/envelopay/backend/internal/httputil"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Router controls the routes for the API.
func Router(cfg config.Application) (*gin.Engine, error) {
	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(MetricsMiddleware())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return log.Logger.With().
				Str("request-id", requestid.Get(c)).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if cfg.CORS.AllowOrigins != "" {
		log.Debug().Str("allowOrigins", cfg.CORS.AllowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(cfg.CORS.AllowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	if err := registerPrometheusMetrics(); err != nil {
		return nil, err
	}

	/*
	 *  Route setup
	 */
	r.GET("", GetRoot)
	r.OPTIONS("", OptionsRoot)
	r.GET("/version", GetVersion)
	r.OPTIONS("/version", OptionsVersion)
	r.GET("/healthz", v1.GetHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	if cfg.Pprof {
		pprof.Register(r, "debug/pprof")
	}

	docs.SwaggerInfo.Title = "Envelopay"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for Envelopay, a household budgeting solution with envelope based income allocation."

	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 setup. Everything under /v1 requires an authenticated
	// caller; all queries are scoped to that caller's records.
	api := r.Group("/v1")
	api.Use(auth.Middleware(cfg.JWTSecret))
	{
		api.GET("", GetV1)
		api.OPTIONS("", OptionsV1)
	}

	if cfg.Transfers.ScanDays > 0 {
		v1.TransferScanDays = cfg.Transfers.ScanDays
	}

	v1.RegisterAccountRoutes(api.Group("/accounts"))
	v1.RegisterEnvelopeRoutes(api.Group("/envelopes"))
	v1.RegisterIncomeSourceRoutes(api.Group("/income-sources"))
	v1.RegisterTransactionRoutes(api.Group("/transactions"))
	v1.RegisterAllocationRoutes(api.Group("/allocations"))
	v1.RegisterIncomeRoutes(api.Group("/income"))
	v1.RegisterTransferRoutes(api.Group("/transfers"))
	v1.RegisterReconciliationRoutes(api.Group("/reconciliation"))
	v1.RegisterDebtRoutes(api.Group("/debts"))

	log.Info().Str("version", version).Msg("backend startup complete")

	return r, nil
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/docs/index.html"`
	Healthz string `json:"healthz" example:"https://example.com/healthz"`
	Version string `json:"version" example:"https://example.com/version"`
	V1      string `json:"v1" example:"https://example.com/v1"`
}

// @Summary		API root
// @Description	Entrypoint for the API, listing all endpoints
// @Tags			General
// @Success		200	{object}	RootResponse
// @Router			/ [get]
func GetRoot(c *gin.Context) {
	url := httputil.RequestHost(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    url + "/docs/index.html",
			Healthz: url + "/healthz",
			Version: url + "/version",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Accounts       string `json:"accounts" example:"https://example.com/v1/accounts"`
	Envelopes      string `json:"envelopes" example:"https://example.com/v1/envelopes"`
	IncomeSources  string `json:"incomeSources" example:"https://example.com/v1/income-sources"`
	Transactions   string `json:"transactions" example:"https://example.com/v1/transactions"`
	Allocations    string `json:"allocations" example:"https://example.com/v1/allocations"`
	Income         string `json:"income" example:"https://example.com/v1/income"`
	Transfers      string `json:"transfers" example:"https://example.com/v1/transfers"`
	Reconciliation string `json:"reconciliation" example:"https://example.com/v1/reconciliation"`
	Debts          string `json:"debts" example:"https://example.com/v1/debts"`
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			General
// @Success		200	{object}	V1Response
// @Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := httputil.RequestHost(c) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Accounts:       url + "/accounts",
			Envelopes:      url + "/envelopes",
			IncomeSources:  url + "/income-sources",
			Transactions:   url + "/transactions",
			Allocations:    url + "/allocations",
			Income:         url + "/income",
			Transfers:      url + "/transfers",
			Reconciliation: url + "/reconciliation",
			Debts:          url + "/debts",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}

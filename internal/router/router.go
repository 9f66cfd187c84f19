package router

import (
	"time"

	"github.com/chocoartesanto/backend-inventory/internal/config"
	"github.com/chocoartesanto/backend-inventory/internal/handler"
	"github.com/chocoartesanto/backend-inventory/internal/middleware"
	"github.com/chocoartesanto/backend-inventory/internal/repository"
	"github.com/chocoartesanto/backend-inventory/internal/service"
	"github.com/chocoartesanto/backend-inventory/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	insumoRepo := repository.NewInsumoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	domiciliarioRepo := repository.NewDomiciliarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	stockSvc := service.NewStockService(insumoRepo, productoRepo, recetaRepo, rdb, cfg.UmbralStockBajo)
	insumoSvc := service.NewInsumoService(insumoRepo, stockSvc)
	productoSvc := service.NewProductoService(productoRepo, recetaRepo, stockSvc)
	ventaSvc := service.NewVentaService(ventaRepo, usuarioRepo, stockSvc, dispatcher, cfg.AlertEmail)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	domiciliarioSvc := service.NewDomiciliarioService(domiciliarioRepo)
	extractoSvc := service.NewExtractoService(ventaRepo, dispatcher, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	stockH := handler.NewStockHandler(stockSvc)
	insumosH := handler.NewInsumosHandler(insumoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	domiciliariosH := handler.NewDomiciliariosHandler(domiciliarioSvc)
	extractosH := handler.NewExtractosHandler(extractoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Check)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	vendedores := middleware.RequireRole("vendedor", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/ventas", vendedores, ventasH.RegistrarVenta)
		v1.GET("/ventas", vendedores, ventasH.ListarVentas)
		v1.GET("/ventas/resumen", vendedores, ventasH.ResumenVentas)
		v1.GET("/ventas/:id", vendedores, ventasH.ObtenerVenta)
		v1.DELETE("/ventas/:numero", admin, ventasH.AnularVenta)

		stock := v1.Group("/stock", vendedores)
		{
			stock.POST("/validar", stockH.ValidarStock)
			stock.GET("/productos", stockH.StockProductos)
			stock.GET("/productos/bajo", stockH.ProductosStockBajo)
			stock.GET("/resumen", stockH.ResumenStock)
		}

		v1.GET("/productos", vendedores, productosH.Listar)
		v1.GET("/productos/:id", vendedores, productosH.Obtener)
		v1.GET("/productos/:id/receta", vendedores, stockH.RecetaProducto)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		v1.GET("/insumos", vendedores, insumosH.Listar)
		v1.GET("/insumos/:id", vendedores, insumosH.Obtener)
		v1.GET("/insumos/:id/movimientos", admin, insumosH.Movimientos)
		insumos := v1.Group("/insumos", admin)
		{
			insumos.POST("", insumosH.Crear)
			insumos.PUT("/:id", insumosH.Actualizar)
			insumos.POST("/:id/ajustar", insumosH.Ajustar)
			insumos.DELETE("/:id", insumosH.Eliminar)
		}

		v1.GET("/categorias", vendedores, categoriasH.Listar)
		cats := v1.Group("/categorias", admin)
		{
			cats.POST("", categoriasH.Crear)
			cats.PUT("/:id", categoriasH.Actualizar)
			cats.DELETE("/:id", categoriasH.Desactivar)
		}

		v1.GET("/domiciliarios", vendedores, domiciliariosH.Listar)
		doms := v1.Group("/domiciliarios", admin)
		{
			doms.POST("", domiciliariosH.Crear)
			doms.PUT("/:id", domiciliariosH.Actualizar)
			doms.DELETE("/:id", domiciliariosH.Desactivar)
		}

		v1.POST("/extractos", admin, extractosH.Generar)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	return r
}

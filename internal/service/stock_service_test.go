package service_test

import (
	"context"
	"testing"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"
	"github.com/chocoartesanto/backend-inventory/internal/repository"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory InsumoRepository stub ──────────────────────────────────────────

type stubInsumoRepo struct {
	insumos     map[uuid.UUID]*model.Insumo
	movimientos []*model.MovimientoInsumo
}

var _ repository.InsumoRepository = (*stubInsumoRepo)(nil)

func newStubInsumoRepo() *stubInsumoRepo {
	return &stubInsumoRepo{insumos: make(map[uuid.UUID]*model.Insumo)}
}

func (r *stubInsumoRepo) Create(_ context.Context, i *model.Insumo) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.insumos[i.ID] = i
	return nil
}

func (r *stubInsumoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Insumo, error) {
	i, ok := r.insumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubInsumoRepo) FindByNombre(_ context.Context, nombre string) (*model.Insumo, error) {
	for _, i := range r.insumos {
		if i.Nombre == nombre {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInsumoRepo) List(_ context.Context) ([]model.Insumo, error) {
	out := make([]model.Insumo, 0, len(r.insumos))
	for _, i := range r.insumos {
		out = append(out, *i)
	}
	return out, nil
}

func (r *stubInsumoRepo) ListStockBajo(_ context.Context) ([]model.Insumo, error) {
	var out []model.Insumo
	for _, i := range r.insumos {
		if i.StockBajo() {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r *stubInsumoRepo) Update(_ context.Context, i *model.Insumo) error {
	r.insumos[i.ID] = i
	return nil
}

func (r *stubInsumoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.insumos, id)
	return nil
}

func (r *stubInsumoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Insumo, error) {
	i, ok := r.insumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *i
	return &copia, nil
}

func (r *stubInsumoRepo) UpdateUtilizadaTx(_ *gorm.DB, id uuid.UUID, nueva decimal.Decimal) error {
	i, ok := r.insumos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.CantidadUtilizada = nueva
	return nil
}

func (r *stubInsumoRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoInsumo) error {
	r.movimientos = append(r.movimientos, m)
	return nil
}

func (r *stubInsumoRepo) ListMovimientos(_ context.Context, insumoID uuid.UUID, _ int) ([]model.MovimientoInsumo, error) {
	var out []model.MovimientoInsumo
	for _, m := range r.movimientos {
		if m.InsumoID == insumoID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubInsumoRepo) DB() *gorm.DB { return nil }

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) buscar(nombre string, variante *string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Nombre != nombre {
			continue
		}
		if variante != nil && *variante != "" {
			if p.Variante == nil || *p.Variante != *variante {
				continue
			}
		}
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) FindByNombreVariante(_ context.Context, nombre string, variante *string) (*model.Producto, error) {
	return r.buscar(nombre, variante)
}

func (r *stubProductoRepo) FindByNombreVarianteTx(_ *gorm.DB, nombre string, variante *string) (*model.Producto, error) {
	return r.buscar(nombre, variante)
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockCantidad += delta
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── In-memory RecetaRepository stub ──────────────────────────────────────────

type stubRecetaRepo struct {
	insumos *stubInsumoRepo
	lineas  map[uuid.UUID][]model.RecetaProducto // por producto
}

var _ repository.RecetaRepository = (*stubRecetaRepo)(nil)

func newStubRecetaRepo(insumos *stubInsumoRepo) *stubRecetaRepo {
	return &stubRecetaRepo{insumos: insumos, lineas: make(map[uuid.UUID][]model.RecetaProducto)}
}

func (r *stubRecetaRepo) conInsumo(productoID uuid.UUID) []model.RecetaProducto {
	lineas := r.lineas[productoID]
	out := make([]model.RecetaProducto, len(lineas))
	for i, l := range lineas {
		out[i] = l
		if ins, ok := r.insumos.insumos[l.InsumoID]; ok {
			out[i].Insumo = ins
		}
	}
	return out
}

func (r *stubRecetaRepo) FindByProductoID(_ context.Context, productoID uuid.UUID) ([]model.RecetaProducto, error) {
	return r.conInsumo(productoID), nil
}

func (r *stubRecetaRepo) FindByProductoIDTx(_ *gorm.DB, productoID uuid.UUID) ([]model.RecetaProducto, error) {
	return r.conInsumo(productoID), nil
}

func (r *stubRecetaRepo) ReplaceTx(_ *gorm.DB, productoID uuid.UUID, lineas []model.RecetaProducto) error {
	r.lineas[productoID] = lineas
	return nil
}

func (r *stubRecetaRepo) ListTodas(_ context.Context) ([]model.RecetaProducto, error) {
	var out []model.RecetaProducto
	for pid := range r.lineas {
		out = append(out, r.conInsumo(pid)...)
	}
	return out, nil
}

func (r *stubRecetaRepo) DB() *gorm.DB { return nil }

// ── Fixtures ─────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	insumoRepo   *stubInsumoRepo
	productoRepo *stubProductoRepo
	recetaRepo   *stubRecetaRepo
	svc          service.StockService
}

func newFixture() *fixture {
	insumoRepo := newStubInsumoRepo()
	productoRepo := newStubProductoRepo()
	recetaRepo := newStubRecetaRepo(insumoRepo)
	return &fixture{
		insumoRepo:   insumoRepo,
		productoRepo: productoRepo,
		recetaRepo:   recetaRepo,
		svc:          service.NewStockService(insumoRepo, productoRepo, recetaRepo, nil, 5),
	}
}

// agregarProducto registers a product with a single-ingredient recipe and
// returns both IDs.
func (f *fixture) agregarProducto(nombre string, stock int, insumoNombre, total, usada, porUnidad string) (uuid.UUID, uuid.UUID) {
	ins := &model.Insumo{
		ID:               uuid.New(),
		Nombre:           insumoNombre,
		Unidad:           "gramos",
		CantidadUnitaria: dec(total),
		CantidadUtilizada: dec(usada),
	}
	f.insumoRepo.insumos[ins.ID] = ins

	p := &model.Producto{
		ID:            uuid.New(),
		Nombre:        nombre,
		Precio:        dec("10"),
		Activo:        true,
		StockCantidad: stock,
	}
	f.productoRepo.productos[p.ID] = p
	f.recetaRepo.lineas[p.ID] = []model.RecetaProducto{
		{ID: uuid.New(), ProductoID: p.ID, InsumoID: ins.ID, Cantidad: dec(porUnidad)},
	}
	return p.ID, ins.ID
}

// ── ValidarDisponibilidad ────────────────────────────────────────────────────

func TestValidarDisponibilidadCarritoValido(t *testing.T) {
	f := newFixture()
	// Queso: 100 en total, 80 usadas → 20 disponibles, 5 por unidad.
	f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")

	resp, err := f.svc.ValidarDisponibilidad(context.Background(), []dto.ItemCarrito{
		{NombreProducto: "Sandwich", Cantidad: 4},
	})
	require.NoError(t, err)
	assert.True(t, resp.Valido)
	assert.Empty(t, resp.Errores)
}

func TestValidarDisponibilidadStockInsuficiente(t *testing.T) {
	f := newFixture()
	f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")

	resp, err := f.svc.ValidarDisponibilidad(context.Background(), []dto.ItemCarrito{
		{NombreProducto: "Sandwich", Cantidad: 5},
	})
	require.NoError(t, err)
	assert.False(t, resp.Valido)
	require.Len(t, resp.Errores, 1)
	assert.Equal(t, "Queso", resp.Errores[0].Insumo)
	assert.True(t, resp.Errores[0].Requerida.Equal(dec("25")))
	assert.True(t, resp.Errores[0].Disponible.Equal(dec("20")))
}

func TestValidarDisponibilidadAcumulaTodosLosErrores(t *testing.T) {
	f := newFixture()
	f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")

	// Product without recipe.
	sinReceta := &model.Producto{ID: uuid.New(), Nombre: "Brownie", Precio: dec("5"), Activo: true}
	f.productoRepo.productos[sinReceta.ID] = sinReceta

	resp, err := f.svc.ValidarDisponibilidad(context.Background(), []dto.ItemCarrito{
		{NombreProducto: "Sandwich", Cantidad: 10}, // faltante de queso
		{NombreProducto: "Brownie", Cantidad: 1},   // sin receta
		{NombreProducto: "Fantasma", Cantidad: 1},  // no existe
	})
	require.NoError(t, err)
	assert.False(t, resp.Valido)
	// Never stops at the first problem.
	assert.Len(t, resp.Errores, 3)
}

// ── ResolverProducto ─────────────────────────────────────────────────────────

func TestResolverProductoConSufijoDeVariante(t *testing.T) {
	f := newFixture()
	variante := "Grande"
	p := &model.Producto{ID: uuid.New(), Nombre: "Torta", Variante: &variante, Precio: dec("20"), Activo: true}
	f.productoRepo.productos[p.ID] = p

	resuelto, err := f.svc.ResolverProducto(context.Background(), "Torta - Grande", nil)
	require.NoError(t, err)
	assert.Equal(t, p.ID, resuelto.ID)

	_, err = f.svc.ResolverProducto(context.Background(), "Torta - Inexistente - XL", nil)
	var notFound *service.ProductoNoEncontradoError
	assert.ErrorAs(t, err, &notFound)
}

// ── RecetaDeProducto ─────────────────────────────────────────────────────────

func TestRecetaDeProductoIncluyeContadores(t *testing.T) {
	f := newFixture()
	pid, _ := f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")

	receta, err := f.svc.RecetaDeProducto(context.Background(), pid)
	require.NoError(t, err)
	require.Len(t, receta, 1)
	assert.Equal(t, "Queso", receta[0].NombreInsumo)
	assert.True(t, receta[0].CantidadPorUnidad.Equal(dec("5")))
	assert.True(t, receta[0].Disponible.Equal(dec("20")))
}

// ── ConsumirInsumosTx ────────────────────────────────────────────────────────

func TestConsumirInsumosActualizaContadores(t *testing.T) {
	f := newFixture()
	pid, iid := f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")
	ventaID := uuid.New()

	err := f.svc.ConsumirInsumosTx(nil, []dto.ItemCarrito{
		{NombreProducto: "Sandwich", Cantidad: 4},
	}, &ventaID)
	require.NoError(t, err)

	// 80 + 4×5 = 100 exactly: consuming down to zero availability is legal.
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.Equal(dec("100")))
	assert.Equal(t, 6, f.productoRepo.productos[pid].StockCantidad)

	require.Len(t, f.insumoRepo.movimientos, 1)
	mov := f.insumoRepo.movimientos[0]
	assert.Equal(t, service.MovimientoVenta, mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(dec("20")))
	assert.Equal(t, ventaID, *mov.VentaID)
}

func TestConsumirInsumosFallaPorFaltante(t *testing.T) {
	f := newFixture()
	pid, iid := f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")

	err := f.svc.ConsumirInsumosTx(nil, []dto.ItemCarrito{
		{NombreProducto: "Sandwich", Cantidad: 5},
	}, nil)

	var faltante *service.StockInsuficienteError
	require.ErrorAs(t, err, &faltante)
	assert.Equal(t, "Queso", faltante.Insumo)
	assert.True(t, faltante.Requerida.Equal(dec("25")))
	assert.True(t, faltante.Disponible.Equal(dec("20")))

	// Nothing mutated on failure.
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.Equal(dec("80")))
	assert.Equal(t, 10, f.productoRepo.productos[pid].StockCantidad)
	assert.Empty(t, f.insumoRepo.movimientos)
}

func TestConsumirInsumosProductoBajoDemandaNoTocaContador(t *testing.T) {
	f := newFixture()
	pid, _ := f.agregarProducto("Cafe", model.StockBajoDemanda, "Grano", "1000", "0", "18")

	err := f.svc.ConsumirInsumosTx(nil, []dto.ItemCarrito{
		{NombreProducto: "Cafe", Cantidad: 3},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StockBajoDemanda, f.productoRepo.productos[pid].StockCantidad)
}

// ── RestaurarInsumosTx ───────────────────────────────────────────────────────

func TestRestaurarInsumosDevuelveConsumo(t *testing.T) {
	f := newFixture()
	// Harina: 3 por unidad, 50 usadas. Anular 2 unidades restaura 6.
	pid, iid := f.agregarProducto("Pan", 4, "Harina", "200", "50", "3")
	ventaID := uuid.New()

	err := f.svc.RestaurarInsumosTx(nil, []dto.ItemCarrito{
		{NombreProducto: "Pan", Cantidad: 2},
	}, &ventaID)
	require.NoError(t, err)

	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.Equal(dec("44")))
	assert.Equal(t, 6, f.productoRepo.productos[pid].StockCantidad)

	require.Len(t, f.insumoRepo.movimientos, 1)
	mov := f.insumoRepo.movimientos[0]
	assert.Equal(t, service.MovimientoAnulacion, mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(dec("-6")))
}

func TestRestaurarInsumosNoBajaDeCero(t *testing.T) {
	f := newFixture()
	// Solo 2 usadas: restaurar 6 debe dejar el contador en cero, no en -4.
	_, iid := f.agregarProducto("Pan", 4, "Harina", "200", "2", "3")

	err := f.svc.RestaurarInsumosTx(nil, []dto.ItemCarrito{
		{NombreProducto: "Pan", Cantidad: 2},
	}, nil)
	require.NoError(t, err)
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.IsZero())
}

func TestRestaurarInsumosOmiteProductoNoResuelto(t *testing.T) {
	f := newFixture()
	_, iid := f.agregarProducto("Pan", 4, "Harina", "200", "50", "3")

	// Renamed product: the line is skipped, the valid one still restores.
	err := f.svc.RestaurarInsumosTx(nil, []dto.ItemCarrito{
		{NombreProducto: "ProductoRenombrado", Cantidad: 1},
		{NombreProducto: "Pan", Cantidad: 1},
	}, nil)
	require.NoError(t, err)
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.Equal(dec("47")))
}

// ── CalcularStockProductos ───────────────────────────────────────────────────

func TestCalcularStockDerivadoEsMinimoDeLineas(t *testing.T) {
	f := newFixture()

	harina := &model.Insumo{ID: uuid.New(), Nombre: "Harina", Unidad: "gramos",
		CantidadUnitaria: dec("100"), CantidadUtilizada: dec("10")} // 90 disponibles
	azucar := &model.Insumo{ID: uuid.New(), Nombre: "Azucar", Unidad: "gramos",
		CantidadUnitaria: dec("50"), CantidadUtilizada: dec("10")} // 40 disponibles
	f.insumoRepo.insumos[harina.ID] = harina
	f.insumoRepo.insumos[azucar.ID] = azucar

	reposteria := &model.Categoria{ID: uuid.New(), Nombre: "Repostería"}
	p := &model.Producto{ID: uuid.New(), Nombre: "Galleta", Precio: dec("3"), Activo: true,
		CategoriaID: &reposteria.ID, Categoria: reposteria}
	p.Receta = []model.RecetaProducto{
		{ProductoID: p.ID, InsumoID: harina.ID, Cantidad: dec("20"), Insumo: harina}, // floor(90/20)=4
		{ProductoID: p.ID, InsumoID: azucar.ID, Cantidad: dec("8"), Insumo: azucar},  // floor(40/8)=5
	}
	f.productoRepo.productos[p.ID] = p

	resultado, err := f.svc.CalcularStockProductos(context.Background())
	require.NoError(t, err)
	require.Len(t, resultado, 1)
	assert.Equal(t, 4, resultado[0].StockCalculado)
	assert.True(t, resultado[0].StockBajo) // umbral 5

	// The browsing payload carries price and category alongside the count.
	assert.True(t, resultado[0].Precio.Equal(dec("3")))
	require.NotNil(t, resultado[0].Categoria)
	assert.Equal(t, "Repostería", *resultado[0].Categoria)
}

func TestCalcularStockUsaOverrideDelInsumo(t *testing.T) {
	f := newFixture()

	// El insumo declara su propio consumo por producto: 10, no 20.
	harina := &model.Insumo{ID: uuid.New(), Nombre: "Harina", Unidad: "gramos",
		CantidadUnitaria: dec("100"), CantidadUtilizada: decimal.Zero,
		CantidadPorProducto: dec("10")}
	f.insumoRepo.insumos[harina.ID] = harina

	p := &model.Producto{ID: uuid.New(), Nombre: "Galleta", Precio: dec("3"), Activo: true}
	p.Receta = []model.RecetaProducto{
		{ProductoID: p.ID, InsumoID: harina.ID, Cantidad: dec("20"), Insumo: harina},
	}
	f.productoRepo.productos[p.ID] = p

	resultado, err := f.svc.CalcularStockProductos(context.Background())
	require.NoError(t, err)
	require.Len(t, resultado, 1)
	assert.Equal(t, 10, resultado[0].StockCalculado)
}

func TestCalcularStockProductoSinReceta(t *testing.T) {
	f := newFixture()
	p := &model.Producto{ID: uuid.New(), Nombre: "Brownie", Precio: dec("5"), Activo: true}
	f.productoRepo.productos[p.ID] = p

	resultado, err := f.svc.CalcularStockProductos(context.Background())
	require.NoError(t, err)
	require.Len(t, resultado, 1)
	assert.True(t, resultado[0].SinReceta)
	assert.Equal(t, 0, resultado[0].StockCalculado)
}

// ── ResumenStock ─────────────────────────────────────────────────────────────

func TestResumenStockCuentaInsumosBajos(t *testing.T) {
	f := newFixture()
	cacao := &model.Insumo{
		ID: uuid.New(), Nombre: "Cacao", Unidad: "gramos",
		CantidadUnitaria: dec("100"), CantidadUtilizada: dec("96"), StockMinimo: dec("5"),
	}
	leche := &model.Insumo{
		ID: uuid.New(), Nombre: "Leche", Unidad: "ml",
		CantidadUnitaria: dec("1000"), CantidadUtilizada: dec("100"), StockMinimo: dec("50"),
	}
	f.insumoRepo.insumos[cacao.ID] = cacao
	f.insumoRepo.insumos[leche.ID] = leche

	resumen, err := f.svc.ResumenStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resumen.TotalInsumos)
	assert.Equal(t, 1, resumen.InsumosStockBajo)
}

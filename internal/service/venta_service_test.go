package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chocoartesanto/backend-inventory/internal/dto"
	"github.com/chocoartesanto/backend-inventory/internal/model"
	"github.com/chocoartesanto/backend-inventory/internal/repository"
	"github.com/chocoartesanto/backend-inventory/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory VentaRepository stub ───────────────────────────────────────────

type stubVentaRepo struct {
	ventas      map[uuid.UUID]*model.Venta
	errCreateTx error
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if r.errCreateTx != nil {
		return r.errCreateTx
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *v
	return &copia, nil
}

func (r *stubVentaRepo) FindByNumeroFactura(_ context.Context, numero string) (*model.Venta, error) {
	for _, v := range r.ventas {
		if v.NumeroFactura == numero {
			copia := *v
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) ListRango(_ context.Context, _, _ time.Time) ([]model.Venta, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubVentaRepo) MarcarAnuladaTx(_ *gorm.DB, id uuid.UUID, motivo string, cuando time.Time) (bool, error) {
	v, ok := r.ventas[id]
	if !ok || v.Anulada {
		return false, nil
	}
	v.Anulada = true
	v.MotivoAnulacion = &motivo
	v.AnuladaAt = &cuando
	return true, nil
}

func (r *stubVentaRepo) Totales(_ context.Context, _, _ time.Time) (*repository.VentaTotales, error) {
	t := &repository.VentaTotales{Total: "0"}
	suma := dec("0")
	for _, v := range r.ventas {
		if v.Anulada {
			continue
		}
		t.Cantidad++
		if v.TieneDomicilio {
			t.Domicilios++
		}
		suma = suma.Add(v.MontoTotal)
	}
	t.Total = suma.String()
	return t, nil
}

func (r *stubVentaRepo) TotalesPorMetodoPago(_ context.Context, _, _ time.Time) ([]repository.MetodoPagoTotal, error) {
	porMetodo := make(map[string]string)
	for _, v := range r.ventas {
		if v.Anulada {
			continue
		}
		prev := dec("0")
		if s, ok := porMetodo[v.MetodoPago]; ok {
			prev = dec(s)
		}
		porMetodo[v.MetodoPago] = prev.Add(v.MontoTotal).String()
	}
	out := make([]repository.MetodoPagoTotal, 0, len(porMetodo))
	for metodo, total := range porMetodo {
		out = append(out, repository.MetodoPagoTotal{MetodoPago: metodo, Total: total})
	}
	return out, nil
}

func (r *stubVentaRepo) TopProductos(_ context.Context, _, _ time.Time, limite int) ([]repository.ProductoVendido, error) {
	porNombre := make(map[string]*repository.ProductoVendido)
	for _, v := range r.ventas {
		if v.Anulada {
			continue
		}
		for _, d := range v.Detalles {
			row, ok := porNombre[d.NombreProducto]
			if !ok {
				row = &repository.ProductoVendido{NombreProducto: d.NombreProducto, Total: "0"}
				porNombre[d.NombreProducto] = row
			}
			row.Unidades += int64(d.Cantidad)
			row.Total = dec(row.Total).Add(d.Subtotal).String()
		}
	}
	out := make([]repository.ProductoVendido, 0, len(porNombre))
	for _, row := range porNombre {
		out = append(out, *row)
	}
	if len(out) > limite {
		out = out[:limite]
	}
	return out, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

// ── In-memory UsuarioRepository stub ─────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[string]*model.Usuario
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	u, ok := r.usuarios[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.Username] = u
	return nil
}

func (r *stubUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	for _, u := range r.usuarios {
		if u.ID == id {
			u.Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

type ventaFixture struct {
	*fixture
	ventaRepo   *stubVentaRepo
	usuarioRepo *stubUsuarioRepo
	svc         service.VentaService
}

func newVentaFixture() *ventaFixture {
	base := newFixture()
	ventaRepo := newStubVentaRepo()
	usuarioRepo := newStubUsuarioRepo()
	usuarioRepo.usuarios["vendedor1"] = &model.Usuario{
		ID: uuid.New(), Username: "vendedor1", Nombre: "Vendedor Uno",
		Rol: "vendedor", Activo: true,
	}
	return &ventaFixture{
		fixture:     base,
		ventaRepo:   ventaRepo,
		usuarioRepo: usuarioRepo,
		svc:         service.NewVentaService(ventaRepo, usuarioRepo, base.svc, nil, ""),
	}
}

func ventaValida(factura string, cantidad int) dto.VentaRequest {
	return dto.VentaRequest{
		NumeroFactura:    factura,
		ClienteNombre:    "Cliente de Prueba",
		VendedorUsername: "vendedor1",
		Fecha:            "2026-08-29",
		Hora:             "14:30:00",
		MetodoPago:       "efectivo",
		MontoPagado:      dec("100"),
		Productos: []dto.VentaItemRequest{
			{NombreProducto: "Sandwich", Cantidad: cantidad, PrecioUnitario: dec("10")},
		},
	}
}

// ── RegistrarVenta ───────────────────────────────────────────────────────────

func TestRegistrarVentaExitosa(t *testing.T) {
	f := newVentaFixture()
	pid, iid := f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")

	resp, err := f.svc.RegistrarVenta(context.Background(), ventaValida("FAC-001", 4))
	require.NoError(t, err)

	assert.Equal(t, "FAC-001", resp.NumeroFactura)
	assert.True(t, resp.Subtotal.Equal(dec("40")))
	assert.True(t, resp.MontoTotal.Equal(dec("40")))
	assert.True(t, resp.Vuelto.Equal(dec("60")))
	require.Len(t, resp.Detalles, 1)

	// Sale persisted, ingredients consumed, counter adjusted.
	assert.Len(t, f.ventaRepo.ventas, 1)
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.Equal(dec("100")))
	assert.Equal(t, 6, f.productoRepo.productos[pid].StockCantidad)
}

func TestRegistrarVentaConDomicilio(t *testing.T) {
	f := newVentaFixture()
	f.agregarProducto("Sandwich", 10, "Queso", "100", "0", "5")

	req := ventaValida("FAC-002", 2)
	req.TieneDomicilio = true
	req.TarifaDomicilio = dec("5")

	resp, err := f.svc.RegistrarVenta(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(dec("20")))
	assert.True(t, resp.MontoTotal.Equal(dec("25")))
	assert.True(t, resp.Vuelto.Equal(dec("75")))
}

func TestRegistrarVentaStockInsuficienteNoPersisteNada(t *testing.T) {
	f := newVentaFixture()
	pid, iid := f.agregarProducto("Sandwich", 10, "Queso", "100", "80", "5")

	_, err := f.svc.RegistrarVenta(context.Background(), ventaValida("FAC-003", 5))

	var valErr *service.ValidacionStockError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Errores, 1)
	assert.True(t, valErr.Errores[0].Requerida.Equal(dec("25")))
	assert.True(t, valErr.Errores[0].Disponible.Equal(dec("20")))

	// The rejected cart left no trace.
	assert.Empty(t, f.ventaRepo.ventas)
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.Equal(dec("80")))
	assert.Equal(t, 10, f.productoRepo.productos[pid].StockCantidad)
}

func TestRegistrarVentaFacturaDuplicada(t *testing.T) {
	f := newVentaFixture()
	f.agregarProducto("Sandwich", 10, "Queso", "1000", "0", "5")

	_, err := f.svc.RegistrarVenta(context.Background(), ventaValida("FAC-004", 1))
	require.NoError(t, err)

	_, err = f.svc.RegistrarVenta(context.Background(), ventaValida("FAC-004", 1))
	assert.ErrorIs(t, err, service.ErrFacturaDuplicada)
	assert.Len(t, f.ventaRepo.ventas, 1)
}

func TestRegistrarVentaMontoPagadoInsuficiente(t *testing.T) {
	f := newVentaFixture()
	f.agregarProducto("Sandwich", 10, "Queso", "1000", "0", "5")

	req := ventaValida("FAC-005", 4)
	req.MontoPagado = dec("30") // total es 40

	_, err := f.svc.RegistrarVenta(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVentaVendedorInexistente(t *testing.T) {
	f := newVentaFixture()
	f.agregarProducto("Sandwich", 10, "Queso", "1000", "0", "5")

	req := ventaValida("FAC-006", 1)
	req.VendedorUsername = "desconocido"

	_, err := f.svc.RegistrarVenta(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVentaEnvuelveErrorDePersistencia(t *testing.T) {
	f := newVentaFixture()
	f.agregarProducto("Sandwich", 10, "Queso", "1000", "0", "5")
	f.ventaRepo.errCreateTx = errors.New("pq: deadlock detected")

	_, err := f.svc.RegistrarVenta(context.Background(), ventaValida("FAC-007", 1))

	// The raw driver text stays behind Unwrap; the client-facing message
	// never carries it.
	var pers *service.PersistenciaError
	require.ErrorAs(t, err, &pers)
	assert.NotContains(t, pers.Error(), "deadlock")
	assert.Contains(t, pers.Unwrap().Error(), "deadlock")
}

// ── AnularVenta ──────────────────────────────────────────────────────────────

func TestAnularVentaRestauraStock(t *testing.T) {
	f := newVentaFixture()
	pid, iid := f.agregarProducto("Pan", 10, "Harina", "200", "0", "3")

	req := ventaValida("FAC-010", 2)
	req.Productos[0].NombreProducto = "Pan"
	resp, err := f.svc.RegistrarVenta(context.Background(), req)
	require.NoError(t, err)

	// Tras la venta: 2×3 = 6 usadas, contador 10 → 8.
	require.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.Equal(dec("6")))
	require.Equal(t, 8, f.productoRepo.productos[pid].StockCantidad)

	anulada, err := f.svc.AnularVenta(context.Background(), resp.NumeroFactura, "cliente se arrepintió")
	require.NoError(t, err)
	assert.True(t, anulada.Anulada)
	require.NotNil(t, anulada.MotivoAnulacion)
	assert.Equal(t, "cliente se arrepintió", *anulada.MotivoAnulacion)

	// Everything went back.
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.IsZero())
	assert.Equal(t, 10, f.productoRepo.productos[pid].StockCantidad)
}

func TestAnularVentaDosVecesNoRestauraDoble(t *testing.T) {
	f := newVentaFixture()
	pid, iid := f.agregarProducto("Pan", 10, "Harina", "200", "0", "3")

	req := ventaValida("FAC-011", 2)
	req.Productos[0].NombreProducto = "Pan"
	resp, err := f.svc.RegistrarVenta(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.AnularVenta(context.Background(), resp.NumeroFactura, "primera anulación")
	require.NoError(t, err)

	_, err = f.svc.AnularVenta(context.Background(), resp.NumeroFactura, "segunda anulación")
	assert.ErrorIs(t, err, service.ErrVentaYaAnulada)

	// Counters restored exactly once.
	assert.True(t, f.insumoRepo.insumos[iid].CantidadUtilizada.IsZero())
	assert.Equal(t, 10, f.productoRepo.productos[pid].StockCantidad)
}

func TestAnularVentaInexistente(t *testing.T) {
	f := newVentaFixture()
	_, err := f.svc.AnularVenta(context.Background(), "FAC-INEXISTENTE", "motivo cualquiera")
	assert.ErrorIs(t, err, service.ErrVentaNoEncontrada)
}

// ── ResumenVentas ────────────────────────────────────────────────────────────

func TestResumenVentasExcluyeAnuladas(t *testing.T) {
	f := newVentaFixture()
	f.agregarProducto("Sandwich", 50, "Queso", "10000", "0", "5")

	r1, err := f.svc.RegistrarVenta(context.Background(), ventaValida("FAC-020", 2))
	require.NoError(t, err)
	_, err = f.svc.RegistrarVenta(context.Background(), ventaValida("FAC-021", 3))
	require.NoError(t, err)

	_, err = f.svc.AnularVenta(context.Background(), r1.NumeroFactura, "anulada para el resumen")
	require.NoError(t, err)

	resumen, err := f.svc.ResumenVentas(context.Background(), "hoy")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resumen.TotalVentas)
	assert.True(t, resumen.MontoTotal.Equal(dec("30")))
	assert.True(t, resumen.PorMetodoPago["efectivo"].Equal(dec("30")))

	require.Len(t, resumen.TopProductos, 1)
	assert.Equal(t, "Sandwich", resumen.TopProductos[0].NombreProducto)
	assert.Equal(t, int64(3), resumen.TopProductos[0].Unidades)
}

package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sales-dashboard-api/internal/application/auth"
	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/application/usecase"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/memory"
	"github.com/jhoicas/sales-dashboard-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/sales-dashboard-api/internal/interfaces/http"
	"github.com/jhoicas/sales-dashboard-api/pkg/logger"
)

func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

// newTestServer arma la app completa sobre el almacén en memoria.
func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	st := memory.NewStore()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(st.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		ProductUC: usecase.NewProductUseCase(st.Products(), st),
		SaleUC: usecase.NewSaleUseCase(st.Sales(), st.Products(),
			csvexport.NewSalesWriter(), pdf.NewMarotoSalesReport("")),
		JWTSecret: testJWTSecret,
		AppName:   "sales-dashboard-test",
	})
	return app
}

func adminToken(t *testing.T) string { return tokenForRoles(t, "ROLE_ADMIN", "ROLE_USER") }
func userToken(t *testing.T) string  { return tokenForRoles(t, "ROLE_USER") }

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func productBody(name, category, price string) map[string]any {
	return map[string]any{"name": name, "category": category, "price": json.Number(price)}
}

func saleBody(productID int64, qty int, total, date string) map[string]any {
	return map[string]any{
		"productId":     productID,
		"quantity":      qty,
		"totalAmount":   json.Number(total),
		"saleDate":      date,
		"customerName":  "John Doe",
		"region":        "North",
		"paymentMethod": "Credit Card",
	}
}

func createProduct(t *testing.T, app *fiber.App, name, price string) dto.ProductResponse {
	t.Helper()
	resp := call(t, app, fiber.MethodPost, "/api/products", adminToken(t), productBody(name, "Electronics", price))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

func createSale(t *testing.T, app *fiber.App, productID int64, qty int, total, date string) dto.SaleResponse {
	t.Helper()
	resp := call(t, app, fiber.MethodPost, "/api/sales", userToken(t), saleBody(productID, qty, total, date))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.SaleResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Infraestructura HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_AsignaRequestID(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	req := httptest.NewRequest(fiber.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "req-123", resp2.Header.Get(apphttp.HeaderRequestID))
}

func TestRutaInexistente_404JSON(t *testing.T) {
	resp := call(t, newTestServer(t), fiber.MethodGet, "/api/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeNotFound, body.Code)
}

func TestRutasProtegidas_SinToken401(t *testing.T) {
	app := newTestServer(t)
	for _, path := range []string{"/api/products", "/api/sales", "/api/sales/export"} {
		resp := call(t, app, fiber.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SignupYSignin(t *testing.T) {
	app := newTestServer(t)
	signup := map[string]string{"username": "maria", "email": "maria@example.com", "password": "secreto1"}

	resp := call(t, app, fiber.MethodPost, "/api/auth/signup", "", signup)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, auth.MsgRegistered, decode[dto.MessageResponse](t, resp).Message)

	resp = call(t, app, fiber.MethodPost, "/api/auth/signup", "", signup)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, auth.MsgUsernameTaken, decode[dto.ErrorResponse](t, resp).Message)

	resp = call(t, app, fiber.MethodPost, "/api/auth/signin", "", map[string]string{"username": "maria", "password": "secreto1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	jwtResp := decode[dto.JwtResponse](t, resp)
	assert.Equal(t, "Bearer", jwtResp.Type)
	assert.Equal(t, []string{"ROLE_USER"}, jwtResp.Roles)

	// el token emitido sirve para rutas de ROLE_USER pero no de admin
	token := "Bearer " + jwtResp.Token
	assert.Equal(t, http.StatusOK, call(t, app, fiber.MethodGet, "/api/sales", token, nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, fiber.MethodGet, "/api/sales/export", token, nil).StatusCode)
}

func TestAuth_SigninInvalido(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodPost, "/api/auth/signin", "", map[string]string{"username": "nadie", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeUnauthorized, body.Code)
	assert.Equal(t, "Bad credentials", body.Message)
}

func TestAuth_SignupValidacion(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodPost, "/api/auth/signup", "", map[string]string{"username": "ab", "email": "no-es-email", "password": "123"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Errors, "username")
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUD(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "899.99")
	assert.Equal(t, int64(1), p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("899.99")))

	resp := call(t, app, fiber.MethodGet, "/api/products", userToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 1)

	resp = call(t, app, fiber.MethodPut, "/api/products/1", adminToken(t), productBody("Laptop Pro", "Electronics", "999.00"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Laptop Pro", decode[dto.ProductResponse](t, resp).Name)

	resp = call(t, app, fiber.MethodDelete, "/api/products/1", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Product deleted successfully", decode[dto.MessageResponse](t, resp).Message)

	resp = call(t, app, fiber.MethodGet, "/api/products/1", userToken(t), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found with id: 1", decode[dto.ErrorResponse](t, resp).Message)
}

func TestProducts_EscrituraSoloAdmin(t *testing.T) {
	app := newTestServer(t)
	createProduct(t, app, "Laptop", "10")
	tok := userToken(t)

	assert.Equal(t, http.StatusForbidden, call(t, app, fiber.MethodPost, "/api/products", tok, productBody("X", "Y", "1")).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, fiber.MethodPut, "/api/products/1", tok, productBody("X", "Y", "1")).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, fiber.MethodDelete, "/api/products/1", tok, nil).StatusCode)
	assert.Equal(t, http.StatusOK, call(t, app, fiber.MethodGet, "/api/products/1", tok, nil).StatusCode)
}

func TestProducts_Validacion(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodPost, "/api/products", adminToken(t), productBody("", "Electronics", "-5"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Equal(t, "Name is required", body.Message)
	assert.Equal(t, "Price must be positive", body.Errors["price"])

	resp = call(t, app, fiber.MethodPost, "/api/products", adminToken(t), map[string]any{"name": "X", "category": "Y"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Price is required", decode[dto.ErrorResponse](t, resp).Message)

	resp = call(t, app, fiber.MethodGet, "/api/products/abc", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_PrecioFueraDeLaColumna(t *testing.T) {
	app := newTestServer(t)
	cases := map[string]string{
		"0.001":       "Price must have at most 2 decimal places",
		"19.999":      "Price must have at most 2 decimal places",
		"10000000000": "Price must be less than 10000000000",
	}
	for price, msg := range cases {
		resp := call(t, app, fiber.MethodPost, "/api/products", adminToken(t), productBody("Laptop", "Electronics", price))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, price)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, apphttp.CodeValidation, body.Code, price)
		assert.Equal(t, msg, body.Errors["price"], price)
	}

	p := createProduct(t, app, "Laptop", "9999999999.99")
	assert.Equal(t, "9999999999.99", p.Price.String())
}

func TestProducts_DeleteConVentas409(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "10")
	createSale(t, app, p.ID, 1, "10", "2024-01-15T10:30:00")

	resp := call(t, app, fiber.MethodDelete, "/api/products/1", adminToken(t), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeConflict, decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_CreateYGet(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "899.99")
	s := createSale(t, app, p.ID, 2, "1799.98", "2024-01-15T10:30:00")

	assert.Equal(t, "Laptop", s.ProductName)
	assert.Equal(t, "Electronics", s.ProductCategory)
	assert.Equal(t, "2024-01-15T10:30:00", s.SaleDate.Format(dto.LocalDateTimeLayout))

	resp := call(t, app, fiber.MethodGet, "/api/sales/1", userToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"saleDate":"2024-01-15T10:30:00"`)
	assert.Contains(t, string(raw), `"totalAmount":1799.98`)
}

func TestSales_CreateValidacion(t *testing.T) {
	app := newTestServer(t)
	resp := call(t, app, fiber.MethodPost, "/api/sales", userToken(t), map[string]any{"quantity": 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "Product ID is required", body.Message)
	assert.Equal(t, "Quantity must be positive", body.Errors["quantity"])
	assert.Equal(t, "Total amount is required", body.Errors["totalAmount"])
	assert.Equal(t, "Sale date is required", body.Errors["saleDate"])
}

func TestSales_ImporteYCantidadFueraDeLaColumna(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "10")

	resp := call(t, app, fiber.MethodPost, "/api/sales", userToken(t), saleBody(p.ID, 1, "30.005", "2024-01-15T10:30:00"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Equal(t, "Total amount must have at most 2 decimal places", body.Errors["totalAmount"])

	resp = call(t, app, fiber.MethodPost, "/api/sales", userToken(t), saleBody(p.ID, 1, "1000000000000", "2024-01-15T10:30:00"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Total amount must be less than 1000000000000", decode[dto.ErrorResponse](t, resp).Errors["totalAmount"])

	big := saleBody(p.ID, 1, "10", "2024-01-15T10:30:00")
	big["quantity"] = json.Number("2147483648")
	resp = call(t, app, fiber.MethodPost, "/api/sales", userToken(t), big)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Quantity must be at most 2147483647", decode[dto.ErrorResponse](t, resp).Errors["quantity"])

	// el update aplica las mismas reglas
	s := createSale(t, app, p.ID, 1, "10", "2024-01-15T10:30:00")
	resp = call(t, app, fiber.MethodPut, "/api/sales/"+strconv.FormatInt(s.ID, 10), adminToken(t), saleBody(p.ID, 1, "0.005", "2024-01-15T10:30:00"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decode[dto.ErrorResponse](t, resp).Code)
}

func TestSales_ProductoInexistente404(t *testing.T) {
	resp := call(t, newTestServer(t), fiber.MethodPost, "/api/sales", userToken(t), saleBody(99, 1, "10", "2024-01-15T10:30:00"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found with id: 99", decode[dto.ErrorResponse](t, resp).Message)
}

func TestSales_UpdateYDelete(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "10")
	createSale(t, app, p.ID, 1, "10", "2024-01-15T10:30:00")

	resp := call(t, app, fiber.MethodPut, "/api/sales/1", userToken(t), saleBody(p.ID, 3, "30", "2024-01-16T09:00:00"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, decode[dto.SaleResponse](t, resp).Quantity)

	assert.Equal(t, http.StatusForbidden, call(t, app, fiber.MethodDelete, "/api/sales/1", userToken(t), nil).StatusCode)

	resp = call(t, app, fiber.MethodDelete, "/api/sales/1", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sale deleted successfully", decode[dto.MessageResponse](t, resp).Message)

	resp = call(t, app, fiber.MethodGet, "/api/sales/1", userToken(t), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Sale not found with id: 1", decode[dto.ErrorResponse](t, resp).Message)
}

func TestSales_ListFiltroYPaginacion(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "10")
	createSale(t, app, p.ID, 1, "10", "2024-01-05T08:00:00")
	createSale(t, app, p.ID, 2, "20", "2024-01-15T10:30:00")
	createSale(t, app, p.ID, 3, "30", "2024-01-31T23:00:00")
	createSale(t, app, p.ID, 4, "40", "2024-02-10T12:00:00")
	tok := userToken(t)

	resp := call(t, app, fiber.MethodGet, "/api/sales?startDate=2024-01-01&endDate=2024-01-31", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.SalePageResponse](t, resp)
	assert.Equal(t, int64(3), page.TotalElements)
	require.Len(t, page.Content, 3)
	assert.Equal(t, 3, page.Content[0].Quantity, "más recientes primero")

	resp = call(t, app, fiber.MethodGet, "/api/sales?page=1&size=2&sortBy=quantity&sortDir=asc", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[dto.SalePageResponse](t, resp)
	assert.Equal(t, int64(4), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 2)
	assert.Equal(t, []int{3, 4}, []int{page.Content[0].Quantity, page.Content[1].Quantity})

	resp = call(t, app, fiber.MethodGet, "/api/sales?startDate=2024-03-01&endDate=2024-03-31", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[dto.SalePageResponse](t, resp)
	assert.True(t, page.Empty)
	assert.Empty(t, page.Content)
}

func TestSales_ListParametrosInvalidos(t *testing.T) {
	app := newTestServer(t)
	tok := userToken(t)
	cases := map[string]string{
		"/api/sales?sortBy=bogus":               apphttp.CodeInvalidSort,
		"/api/sales?sortDir=sideways":           apphttp.CodeInvalidSort,
		"/api/sales?startDate=2024-01-01":       apphttp.CodeValidation,
		"/api/sales?size=0":                     apphttp.CodeValidation,
		"/api/sales?page=-1":                    apphttp.CodeValidation,
		"/api/sales?startDate=ayer&endDate=hoy": apphttp.CodeValidation,
	}
	for path, code := range cases {
		resp := call(t, app, fiber.MethodGet, path, tok, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, code, decode[dto.ErrorResponse](t, resp).Code, path)
	}

	// page*size desbordaría el offset
	resp := call(t, app, fiber.MethodGet, "/api/sales?page=92233720368547759&size=100", tok, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "page is too large", decode[dto.ErrorResponse](t, resp).Errors["page"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_ExportCSV(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "899.99")
	createSale(t, app, p.ID, 1, "899.99", "2024-01-15T10:30:00")
	createSale(t, app, p.ID, 2, "1799.98", "2024-02-10T12:00:00")

	resp := call(t, app, fiber.MethodGet, "/api/sales/export?startDate=2024-01-01&endDate=2024-01-31", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `attachment; filename="sales_export.csv"`)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(csvexport.Header, ","), lines[0])
	assert.Equal(t, "1,Laptop,Electronics,1,899.99,2024-01-15 10:30:00,John Doe,North,Credit Card", lines[1])
}

func TestSales_ExportSoloAdmin(t *testing.T) {
	app := newTestServer(t)
	assert.Equal(t, http.StatusForbidden, call(t, app, fiber.MethodGet, "/api/sales/export", userToken(t), nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, fiber.MethodGet, "/api/sales/export/pdf", userToken(t), nil).StatusCode)
}

func TestSales_ExportRangoIncompleto400(t *testing.T) {
	resp := call(t, newTestServer(t), fiber.MethodGet, "/api/sales/export?endDate=2024-01-31", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSales_ExportPDF(t *testing.T) {
	app := newTestServer(t)
	p := createProduct(t, app, "Laptop", "899.99")
	createSale(t, app, p.ID, 1, "899.99", "2024-01-15T10:30:00")

	resp := call(t, app, fiber.MethodGet, "/api/sales/export/pdf", adminToken(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "sales_report.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

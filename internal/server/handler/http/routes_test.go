package http

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinyakov/GreenFacade/internal/filter"
	"github.com/atinyakov/GreenFacade/internal/repository"
	"github.com/atinyakov/GreenFacade/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 200, A: 128})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	img := filepath.Join(dir, "efeu.png")
	writePNG(t, img)

	csv := "Name;Botanisch;Standort;Klettertyp;Immergruen;Insektenfreundlich;Bild_URL;Beschreibung\n" +
		"Efeu;Hedera helix;Schatten;Selbstklimmer;Ja;ja;" + img + ";Robust und immergrün\n" +
		"Wilder Wein;Parthenocissus;Sonne;Haftscheiben;Nein;nein;;\n" +
		"Clematis;Clematis montana;Sonne;Ranker;Nein;Ja, sehr;fehlt.png;Blüht im Mai\n"
	data := filepath.Join(dir, "plants.csv")
	require.NoError(t, os.WriteFile(data, []byte(csv), 0o600))

	logger := zap.NewNop()
	sessions := repository.NewMemorySessionRepository()
	catalog := service.NewCatalogService(repository.NewCSVPlantRepository(data))
	auth := service.NewAuthService(repository.NewDefaultCredentialRepository())

	router := NewRouter(
		&AuthHandler{AuthService: auth, Sessions: sessions, Logger: logger},
		&CatalogHandler{Catalog: catalog, Sessions: sessions, Logger: logger},
		&ExportHandler{Catalog: catalog, Logger: logger},
		sessions,
		logger,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func login(t *testing.T, c *http.Client, base, user, pass string) *http.Response {
	t.Helper()
	resp, err := c.PostForm(base+"/login", url.Values{"username": {user}, "password": {pass}})
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, []byte) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestRouter_RequiresLogin(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	resp, _ := get(t, c, srv.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = get(t, c, srv.URL+"/api/plants")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(t, c, srv.URL+"/export/pdf")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = login(t, c, srv.URL, "admin", "falsch")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = get(t, c, srv.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "failed login must not authenticate")
}

func TestRouter_BrowseAndFilter(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)
	require.Equal(t, http.StatusSeeOther, login(t, c, srv.URL, "architekt", "planer2024").StatusCode)

	resp, body := get(t, c, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := string(body)
	assert.Contains(t, html, "3 Pflanzen")
	assert.Contains(t, html, `src="/images/0"`)
	assert.NotContains(t, html, `src="/images/2"`, "missing image files get the placeholder")
	assert.Contains(t, html, `href="/export/pdf"`)

	resp, body = get(t, c, srv.URL+"/images/0")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, body)
	resp, _ = get(t, c, srv.URL+"/images/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, c, srv.URL+"/images/abc")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err := c.PostForm(srv.URL+"/filters", url.Values{
		"standort":   {"Sonne"},
		"immergruen": {"Alle"},
		"insekten":   {"1"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = get(t, c, srv.URL+"/api/plants")
	var plants PlantsResponse
	require.NoError(t, json.Unmarshal(body, &plants))
	require.Len(t, plants.Records, 1)
	assert.Equal(t, 1, plants.Count)
	assert.Equal(t, 3, plants.Total)
	assert.Equal(t, 2, plants.Records[0].Index)
	assert.Equal(t, "Clematis", *plants.Records[0].Fields["Name"])

	_, body = get(t, c, srv.URL+"/api/session")
	var sess SessionResponse
	require.NoError(t, json.Unmarshal(body, &sess))
	assert.Equal(t, "architekt", sess.Username)
	assert.True(t, sess.CanExport)
	assert.Equal(t, []string{"Sonne"}, sess.Filters.Location)
	assert.True(t, sess.Filters.InsectFriendly)

	resp, err = c.Post(srv.URL+"/filters/reset", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	_, body = get(t, c, srv.URL+"/api/plants")
	require.NoError(t, json.Unmarshal(body, &plants))
	assert.Len(t, plants.Records, 3, "reset restores the full table")
	assert.Nil(t, plants.Records[1].Fields["Bild_URL"])

	_, body = get(t, c, srv.URL+"/api/options")
	var opts filter.Options
	require.NoError(t, json.Unmarshal(body, &opts))
	assert.Equal(t, []string{"Schatten", "Sonne"}, opts.Location)
}

func TestRouter_ExportByRole(t *testing.T) {
	srv := newTestServer(t)

	guest := newClient(t)
	require.Equal(t, http.StatusSeeOther, login(t, guest, srv.URL, "demo", "gast").StatusCode)
	_, body := get(t, guest, srv.URL+"/")
	assert.Contains(t, string(body), "Export nur in Vollversion")
	for _, path := range []string{"/export/xlsx", "/export/pdf"} {
		resp, _ := get(t, guest, srv.URL+path)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}

	full := newClient(t)
	require.Equal(t, http.StatusSeeOther, login(t, full, srv.URL, "admin", "admin123").StatusCode)

	resp, body := get(t, full, srv.URL+"/export/xlsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "pflanzen.xlsx")
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	rows, err := f.GetRows("Pflanzenauswahl")
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	resp, body = get(t, full, srv.URL+"/export/pdf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "report.pdf")
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestRouter_LoginRotatesSessionID(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	resp, _ := get(t, c, srv.URL+"/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	before := c.Jar.Cookies(u)
	require.Len(t, before, 1)

	require.Equal(t, http.StatusSeeOther, login(t, c, srv.URL, "admin", "admin123").StatusCode)
	after := c.Jar.Cookies(u)
	require.Len(t, after, 1)
	assert.NotEqual(t, before[0].Value, after[0].Value)

	// The pre-login id no longer grants access.
	stale := newClient(t)
	stale.Jar.SetCookies(u, before)
	resp, _ = get(t, stale, srv.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = get(t, c, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Logout(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)
	require.Equal(t, http.StatusSeeOther, login(t, c, srv.URL, "admin", "admin123").StatusCode)

	resp, err := c.Post(srv.URL+"/logout", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = get(t, c, srv.URL+"/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestRouter_MissingData(t *testing.T) {
	logger := zap.NewNop()
	sessions := repository.NewMemorySessionRepository()
	catalog := service.NewCatalogService(repository.NewCSVPlantRepository(filepath.Join(t.TempDir(), "none.csv")))
	router := NewRouter(
		&AuthHandler{AuthService: service.NewAuthService(repository.NewDefaultCredentialRepository()), Sessions: sessions, Logger: logger},
		&CatalogHandler{Catalog: catalog, Sessions: sessions, Logger: logger},
		&ExportHandler{Catalog: catalog, Logger: logger},
		sessions,
		logger,
	)
	srv := httptest.NewServer(router)
	defer srv.Close()
	c := newClient(t)
	login(t, c, srv.URL, "admin", "admin123")

	resp, body := get(t, c, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), LoadWarning)
	assert.Contains(t, string(body), "Keine Daten gefunden.")

	resp, _ = get(t, c, srv.URL+"/export/xlsx")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestParseSelection(t *testing.T) {
	sel := ParseSelection(url.Values{
		"standort":   {"Sonne", "", "Sonne", "Schatten"},
		"immergruen": {"vielleicht"},
	})
	assert.Equal(t, []string{"Sonne", "Schatten"}, sel.Location)
	assert.Equal(t, "Alle", sel.Evergreen)
	assert.False(t, sel.InsectFriendly)
	assert.True(t, ParseSelection(url.Values{}).IsEmpty())
}

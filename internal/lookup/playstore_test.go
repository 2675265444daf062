package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playDetailsPage = `<!doctype html>
<html><body>
<h1 itemprop="name">Minecraft</h1>
<a class="dev-link" itemprop="author">Mojang</a>
<div class="show-more" itemprop="description">Explore infinite worlds.<br>Build <b>anything</b></div>
<img itemprop="image" src="//lh3.example/icon.png" alt="icon">
<img itemprop="screenshot" src="//lh3.example/s1.png">
<img itemprop="screenshot" src="//lh3.example/s2.png">
<span itemprop="softwareVersion">1.21.0</span>
<span itemprop="fileSize">Varies with device</span>
<span itemprop="datePublished">June 4, 2013</span>
<span itemprop="operatingSystems">5.0 and up</span>
<meta itemprop="contentRating" content="Everyone 10+">
<meta itemprop="ratingValue" content="4.6">
<meta itemprop="ratingCount" content="5345163">
<span itemprop="genre">Arcade</span>
<span itemprop="numDownloads">10,000,000+</span>
<meta itemprop="url" content="http://minecraft.example">
</body></html>`

func TestExtractPlayApp(t *testing.T) {
	app := extractPlayApp(playDetailsPage)

	assert.Equal(t, "Minecraft", app.Title)
	assert.Equal(t, "Mojang", app.Developer)
	assert.Equal(t, "Explore infinite worlds.<br>Build <b>anything</b>", app.Description)
	assert.Equal(t, "1.21.0", app.CurrentVersion)
	assert.Equal(t, "Varies with device", app.Size)
	assert.Equal(t, "June 4, 2013", app.Updated)
	assert.Equal(t, "5.0 and up", app.RequiresAndroid)
	assert.Equal(t, "Everyone 10+", app.ContentRating)
	assert.Equal(t, "4.6", app.Rating)
	assert.Equal(t, "5345163", app.Votes)
	assert.Equal(t, "Arcade", app.Category)
	assert.Equal(t, "10,000,000+", app.Installs)
	assert.Equal(t, "http://minecraft.example", app.WebsiteURL)
	assert.Equal(t, "//lh3.example/icon.png", app.BannerIconURL)
	assert.Equal(t, []string{"//lh3.example/s1.png", "//lh3.example/s2.png"}, app.ScreenshotURLs)
}

func TestExtractPlayAppFirstOccurrenceWins(t *testing.T) {
	page := `<span itemprop="name">First</span><span itemprop="name">Second</span>`
	assert.Equal(t, "First", extractPlayApp(page).Title)
}

func TestPlayStoreFind(t *testing.T) {
	var gotID, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.URL.Query().Get("id")
		gotLang = r.URL.Query().Get("hl")
		w.Write([]byte(playDetailsPage))
	}))
	defer srv.Close()

	c := NewPlayStoreClient(srv.URL)
	app, err := c.Find(context.Background(), "com.mojang.minecraftpe", "fi")

	require.NoError(t, err)
	assert.Equal(t, "com.mojang.minecraftpe", gotID)
	assert.Equal(t, "fi", gotLang)
	assert.Equal(t, "Minecraft", app.Title)
}

func TestPlayStoreFindDefaultsLanguage(t *testing.T) {
	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("hl")
		w.Write([]byte(playDetailsPage))
	}))
	defer srv.Close()

	c := NewPlayStoreClient(srv.URL)
	_, err := c.Find(context.Background(), "com.mojang.minecraftpe", "")

	require.NoError(t, err)
	assert.Equal(t, "en", gotLang)
}

func TestPlayStoreFindNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewPlayStoreClient(srv.URL)
	_, err := c.Find(context.Background(), "com.does.not.exist", "en")

	var noResults *NoResultsError
	require.ErrorAs(t, err, &noResults)
	assert.Equal(t, "could not find app in the play store", err.Error())
}

func TestPlayStoreFindUnusablePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>captcha wall</body></html>`))
	}))
	defer srv.Close()

	c := NewPlayStoreClient(srv.URL)
	_, err := c.Find(context.Background(), "com.mojang.minecraftpe", "en")

	var noResults *NoResultsError
	assert.ErrorAs(t, err, &noResults)
}

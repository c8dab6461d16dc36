package sites

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"newsharvest/internal/scraper"
)

const chelnyListingHTML = `<html><body>
<div class="post-item"><a class="post-item__title" href="/news/kultura/pervaya">Первая</a></div>
<div class="post-item"><a class="post-item__title" href="https://chelny-izvest.ru/news/gorod/vtoraya">Вторая</a></div>
<div class="post-item"><a class="post-item__title" href="https://other.example/news/tretya">Чужая</a></div>
<div class="post-item"><a class="post-item__title" href="mailto:redaktor@chelny-izvest.ru">Почта</a></div>
<div class="post-item"><a class="post-item__title" href="/news/sport/chetvertaya#comments">Четвёртая</a></div>
</body></html>`

const chelnyArticleHTML = `<html>
<head><meta property="og:title" content="Запасной заголовок"/></head>
<body>
<div class="page-main">
<h1 class="page-main__head">В Челнах открыли новый парк</h1>
<div class="page-main__publish-date">пятница, 12.08.22</div>
<div class="page-main__publish-author"><a href="/authors/1">Айгуль Сагитова</a></div>
<div class="page-main__text">
<p>Первый абзац текста.</p>
<p>   </p>
<p>Второй абзац текста.</p>
</div>
<div class="panel-group"><a href="/tag/1">Город</a><a href="/tag/2">Благоустройство</a></div>
</div>
</body>
</html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestProfileExtractLinks(t *testing.T) {
	profile := ChelnyIzvest()
	doc := mustDoc(t, chelnyListingHTML)
	base, err := url.Parse("https://chelny-izvest.ru/news")
	require.NoError(t, err)

	links := profile.ExtractLinks(doc, base)

	require.Equal(t, []string{
		"https://chelny-izvest.ru/news/kultura/pervaya",
		"https://chelny-izvest.ru/news/gorod/vtoraya",
		"https://chelny-izvest.ru/news/sport/chetvertaya",
	}, links, "off-site and non-HTTP links are dropped, fragments stripped")
}

func TestProfileExtractLinksFromContainers(t *testing.T) {
	profile := &Profile{
		List: ListSelectors{Teasers: ".teaser"},
	}
	doc := mustDoc(t, `<div class="teaser"><h2><a href="/a">A</a></h2></div><div class="teaser">no link</div>`)
	base, err := url.Parse("https://www.example.com/news")
	require.NoError(t, err)

	links := profile.ExtractLinks(doc, base)

	require.Equal(t, []string{"https://www.example.com/a"}, links)
}

func TestProfileExtractLinksHostAliases(t *testing.T) {
	profile := ChelnyIzvest()
	doc := mustDoc(t, `<a class="post-item__title" href="https://www.chelny-izvest.ru/news/a">A</a>`)
	base, err := url.Parse("https://chelny-izvest.ru/news")
	require.NoError(t, err)

	links := profile.ExtractLinks(doc, base)

	require.Equal(t, []string{"https://www.chelny-izvest.ru/news/a"}, links, "www alias stays on-site")
}

func TestProfileExtractText(t *testing.T) {
	profile := ChelnyIzvest()
	doc := mustDoc(t, chelnyArticleHTML)

	paragraphs, err := profile.ExtractText(doc)

	require.NoError(t, err)
	require.Equal(t, []string{"Первый абзац текста.", "Второй абзац текста."}, paragraphs)
}

func TestProfileExtractTextMissing(t *testing.T) {
	profile := ChelnyIzvest()
	doc := mustDoc(t, `<html><body><div class="page-main"></div></body></html>`)

	_, err := profile.ExtractText(doc)

	require.ErrorIs(t, err, scraper.ErrElementMissing)
}

func TestProfileExtractMeta(t *testing.T) {
	profile := ChelnyIzvest()
	doc := mustDoc(t, chelnyArticleHTML)

	meta, err := profile.ExtractMeta(doc)

	require.NoError(t, err)
	require.Equal(t, "В Челнах открыли новый парк", meta.Title)
	require.Equal(t, []string{"Айгуль Сагитова"}, meta.Authors)
	require.Equal(t, []string{"Город", "Благоустройство"}, meta.Topics)
	require.Equal(t, "пятница, 12.08.22", meta.RawDate)
}

func TestProfileExtractMetaTitleFallback(t *testing.T) {
	profile := ChelnyIzvest()
	doc := mustDoc(t, `<html>
<head><meta property="og:title" content="Запасной заголовок"/></head>
<body><div class="page-main__publish-date">12.08.22</div></body>
</html>`)

	meta, err := profile.ExtractMeta(doc)

	require.NoError(t, err)
	require.Equal(t, "Запасной заголовок", meta.Title)
}

func TestProfileExtractMetaMissing(t *testing.T) {
	profile := ChelnyIzvest()
	doc := mustDoc(t, `<html><body><p>ничего</p></body></html>`)

	meta, err := profile.ExtractMeta(doc)

	require.ErrorIs(t, err, scraper.ErrElementMissing)
	require.Contains(t, err.Error(), "title")
	require.Contains(t, err.Error(), "date")
	require.Empty(t, meta.Title)
}

func TestProfileDateFromAttribute(t *testing.T) {
	profile := &Profile{
		Article: ArticleSelectors{Title: "h1", Date: "time", DateAttr: "datetime"},
		Date:    DateFormat{Pattern: `\d{4}-\d{2}-\d{2}`, Layout: "2006-01-02"},
	}
	doc := mustDoc(t, `<h1>Заголовок</h1><time datetime="2022-08-12T10:30:00+03:00">сегодня</time>`)

	meta, err := profile.ExtractMeta(doc)
	require.NoError(t, err)
	require.Equal(t, "2022-08-12T10:30:00+03:00", meta.RawDate)

	when, err := profile.NormalizeDate(meta.RawDate)
	require.NoError(t, err)
	require.Equal(t, time.Date(2022, time.August, 12, 0, 0, 0, 0, time.UTC), when)
}

func TestProfileNormalizeDate(t *testing.T) {
	profile := ChelnyIzvest()

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "weekday prefix",
			raw:  "пятница, 12.08.22",
			want: time.Date(2022, time.August, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "bare date",
			raw:  "12.08.22",
			want: time.Date(2022, time.August, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "surrounding whitespace",
			raw:  "  вторник, 01.03.22 в 10:00",
			want: time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "no date token",
			raw:     "сегодня",
			wantErr: true,
		},
		{
			name:    "token is not a date",
			raw:     "99.99.99",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := profile.NormalizeDate(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProfileValidate(t *testing.T) {
	valid := func() *Profile { return ChelnyIzvest() }

	tests := []struct {
		name   string
		mutate func(*Profile)
		errMsg string
	}{
		{"complete profile", func(*Profile) {}, ""},
		{"missing name", func(p *Profile) { p.Name = "" }, "name"},
		{"missing teasers", func(p *Profile) { p.List.Teasers = "" }, "teasers"},
		{"missing title", func(p *Profile) { p.Article.Title = "" }, "title"},
		{"missing paragraphs", func(p *Profile) { p.Article.Paragraphs = "" }, "paragraphs"},
		{"missing date selector", func(p *Profile) { p.Article.Date = "" }, "date selector"},
		{"missing layout", func(p *Profile) { p.Date.Layout = "" }, "layout"},
		{"missing pattern", func(p *Profile) { p.Date.Pattern = "" }, "pattern"},
		{"broken pattern", func(p *Profile) { p.Date.Pattern = "([" }, "pattern"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			profile := valid()
			tt.mutate(profile)
			err := profile.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

package scraper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewArticleRecordDefaults(t *testing.T) {
	rec := NewArticleRecord(3, "https://example.com/news/3")

	require.Equal(t, 3, rec.ID)
	require.Equal(t, "https://example.com/news/3", rec.URL)
	require.Empty(t, rec.Title)
	require.Empty(t, rec.Text)
	require.Equal(t, []string{AuthorUnknown}, rec.Authors)
	require.NotNil(t, rec.Topics)
	require.Empty(t, rec.Topics)
	require.True(t, rec.Date.IsZero())
}

func TestArticleRecordJSON(t *testing.T) {
	rec := NewArticleRecord(1, "https://example.com/news/1")
	rec.Title = "Заголовок"
	rec.Text = "не должен попасть в метаданные"
	rec.Authors = []string{"Иван Петров"}
	rec.Topics = []string{"Город"}
	rec.Date = NewDate(time.Date(2022, time.August, 12, 15, 4, 5, 0, time.UTC))

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "2022-08-12", decoded["date"])
	require.Equal(t, "Заголовок", decoded["title"])
	require.NotContains(t, decoded, "text", "body text belongs in the raw artifact only")
}

func TestEmptyRecordJSON(t *testing.T) {
	rec := NewArticleRecord(2, "https://example.com/news/2")

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": 2,
		"url": "https://example.com/news/2",
		"title": "",
		"authors": ["unknown"],
		"topics": [],
		"date": ""
	}`, string(data))
}

func TestDateRoundTrip(t *testing.T) {
	d := NewDate(time.Date(2022, time.August, 12, 23, 59, 59, 0, time.UTC))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2022-08-12"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, d, back)
}

func TestDateUnmarshalEmpty(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	require.True(t, d.IsZero())
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	require.Error(t, json.Unmarshal([]byte(`"12.08.2022"`), &d))
	require.Error(t, json.Unmarshal([]byte(`42`), &d))
}

func TestFetchResultOK(t *testing.T) {
	require.True(t, FetchResult{StatusCode: 200}.OK())
	require.True(t, FetchResult{StatusCode: 204}.OK())
	require.False(t, FetchResult{StatusCode: 301}.OK())
	require.False(t, FetchResult{StatusCode: 404}.OK())
	require.False(t, FetchResult{StatusCode: 0}.OK())
}

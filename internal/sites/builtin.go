package sites

// ChelnyIzvest is the profile for chelny-izvest.ru, the Naberezhnye Chelny
// city news site. Dates appear as a weekday prefix followed by a two-digit
// day.month.year, e.g. "пятница, 12.08.22".
func ChelnyIzvest() *Profile {
	return &Profile{
		Name: "chelny-izvest",
		List: ListSelectors{
			Teasers: "a.post-item__title",
		},
		Article: ArticleSelectors{
			Title:      ".page-main__head",
			Paragraphs: ".page-main__text p",
			Authors:    ".page-main__publish-author a",
			Topics:     ".panel-group a",
			Date:       ".page-main__publish-date",
		},
		Date: DateFormat{
			Pattern: `\d{2}\.\d{2}\.\d{2}`,
			Layout:  "02.01.06",
		},
	}
}

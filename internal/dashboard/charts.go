package dashboard

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/labstack/echo/v4"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/trends"
)

// maxBars caps the category and keyword bar charts.
const maxBars = 25

func (s *Server) handleCharts(c echo.Context) error {
	res, err := s.load(c)
	if err != nil {
		return err
	}
	sum := s.summarize(res)
	keyword := s.keyword(c)

	var trend []trends.TrendPoint
	if keyword != "" {
		trend = trends.KeywordTrend(res.Posts, keyword, trends.GranularityFor(res.Window), s.loc)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return renderPage(c.Response(), sum, res.Status(), keyword, trend)
}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros})
}

func renderPage(w io.Writer, sum *trends.Summary, status, keyword string, trend []trends.TrendPoint) error {
	page := components.NewPage()
	page.AddCharts(
		postsOverTime(sum, status),
		postsPerCategory(sum),
		dominance(sum),
		averageScore(sum),
		keywordVelocity(sum),
	)
	if keyword != "" {
		page.AddCharts(keywordTrend(keyword, sum.Window, trend))
	}
	return page.Render(w)
}

func postsOverTime(sum *trends.Summary, status string) *charts.Line {
	title, series := "Reddit Posts Over Time", "Posts per Day"
	if sum.Granularity == trends.Hourly.String() {
		title, series = "Reddit Posts by Hour", "Posts per Hour"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: title, Subtitle: status}))

	keys := make([]string, 0, len(sum.Buckets))
	data := make([]opts.LineData, 0, len(sum.Buckets))
	for _, b := range sum.Buckets {
		keys = append(keys, b.Key)
		data = append(data, opts.LineData{Value: b.Count})
	}
	line.SetXAxis(keys).AddSeries(series, data)
	return line
}

func postsPerCategory(sum *trends.Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: "Posts per Subreddit"}))

	var names []string
	var data []opts.BarData
	for i, cc := range sum.Distribution {
		if i == maxBars {
			break
		}
		names = append(names, cc.Category)
		data = append(data, opts.BarData{Value: cc.Count})
	}
	bar.SetXAxis(names).AddSeries("Number of Posts", data)
	return bar
}

// dominance is the petri dish: one slice per subreddit sized by post count,
// labelled with subscriber count when known.
func dominance(sum *trends.Summary) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: "Subreddit Dominance"}))

	items := make([]opts.PieData, 0, len(sum.Distribution))
	for _, cc := range sum.Distribution {
		name := cc.Category
		if b, ok := sum.Leaderboard[cc.Category]; ok && b.Subscribers != nil {
			name = fmt.Sprintf("r/%s (%d subscribers)", cc.Category, *b.Subscribers)
		}
		items = append(items, opts.PieData{Name: name, Value: cc.Count})
	}
	pie.AddSeries("Posts", items)
	return pie
}

func averageScore(sum *trends.Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: "Average Post Score Over Time"}))

	keys := make([]string, 0, len(sum.Scores))
	data := make([]opts.BarData, 0, len(sum.Scores))
	for _, sp := range sum.Scores {
		keys = append(keys, sp.Key)
		data = append(data, opts.BarData{Value: sp.AverageScore})
	}
	bar.SetXAxis(keys).AddSeries("Average Score", data)
	return bar
}

func keywordVelocity(sum *trends.Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{Title: "Keyword Velocity"}))

	var words []string
	var data []opts.BarData
	for i, kc := range sum.TopKeywords {
		if i == maxBars {
			break
		}
		words = append(words, kc.Keyword)
		data = append(data, opts.BarData{Value: kc.Count})
	}
	bar.SetXAxis(words).AddSeries("Mentions", data)
	return bar
}

func keywordTrend(keyword string, window domain.Window, trend []trends.TrendPoint) *charts.Line {
	suffix := "Over Time"
	if trends.GranularityFor(window) == trends.Hourly {
		suffix = "by Hour"
	}
	line := charts.NewLine()
	line.SetGlobalOptions(initOpts(), charts.WithTitleOpts(opts.Title{
		Title: fmt.Sprintf("Keyword Trend: %q %s", keyword, suffix),
	}))

	keys := make([]string, 0, len(trend))
	counts := make([]opts.LineData, 0, len(trend))
	pct := make([]opts.LineData, 0, len(trend))
	for _, tp := range trend {
		keys = append(keys, tp.Key)
		counts = append(counts, opts.LineData{Value: tp.Mentions})
		pct = append(pct, opts.LineData{Value: tp.Percent})
	}
	line.SetXAxis(keys).
		AddSeries(fmt.Sprintf("Posts mentioning %q", keyword), counts).
		AddSeries("Percentage of all posts", pct)
	return line
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/newslens/core"
	"github.com/poiesic/newslens/storage/parquet"
)

// Each entry is a title and body separated by a tab.
var stories = []string{
	"Parliament approves revised budget\tLawmakers passed the spending plan after a late-night session, ending weeks of negotiation.",
	"Opposition criticises budget cuts\tOpposition leaders said the new budget reduces funding for regional hospitals and schools.",
	"Central bank holds interest rates\tThe central bank left its benchmark rate unchanged, citing easing inflation.",
	"Inflation slows for third month\tConsumer prices rose more slowly in the last quarter as fuel costs fell.",
	"Storm warning issued for coast\tForecasters warned of strong winds and flooding along the northern coast this weekend.",
	"Flooding closes highway\tHeavy rain forced authorities to close a section of the main highway overnight.",
	"National team reaches cup final\tA late goal sent the national team into the final for the first time in a decade.",
	"Coach praises young squad\tThe coach said the squad's youngest players made the difference in the semi-final.",
	"New metro line opens\tThe city's first driverless metro line began carrying passengers on Monday.",
	"Commuters welcome faster trains\tEarly riders said the new line cut their journey to work by half.",
	"Hospital wait times fall\tAverage waiting times in emergency departments dropped after new staff were hired.",
	"Nurses agree new contract\tThe nurses' union accepted a pay deal that includes reduced night shifts.",
	"Tech firm opens research centre\tThe company will employ two hundred engineers at its new artificial intelligence lab.",
	"Startups attract record investment\tVenture funding for local startups reached a record high this year.",
	"Wildfire contained after five days\tFirefighters brought the blaze under control after it burned thousands of hectares.",
	"Drought threatens harvest\tFarmers warned that the dry summer could halve this year's wheat harvest.",
	"Museum returns looted artefacts\tThe national museum handed back sculptures taken during the colonial era.",
	"Film festival announces lineup\tThe festival will open with a debut feature from a first-time director.",
	"Election date confirmed\tThe electoral commission confirmed that the general election will take place in spring.",
	"Candidates debate housing policy\tThe leading candidates clashed over rent controls in a televised debate.",
	"Port strike delays shipments\tDock workers walked out over pay, leaving hundreds of containers stranded.",
	"Exporters count cost of strike\tBusiness groups estimated the port strike has cost exporters millions each day.",
	"Scientists map ancient river\tSatellite imagery revealed the course of a river that dried up thousands of years ago.",
	"Researchers find new deep sea species\tAn expedition catalogued dozens of previously unknown animals on the ocean floor.",
}

var (
	srcFileName = flag.String("src", "", "file of tab-separated title and body lines")
	outFileName = flag.String("out", "data/news_last_1_year.parquet", "output article table")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// buildTable turns title/body lines into a table with sequential ids.
// Blank lines are skipped; a line without a tab is a title with an empty body.
func buildTable(source iter.Seq[string]) (*core.Table, error) {
	var articles []*core.Article
	for line := range source {
		if strings.TrimSpace(line) == "" {
			continue
		}
		title, body, _ := strings.Cut(line, "\t")
		articles = append(articles, &core.Article{
			Id:    core.ID(len(articles)),
			URL:   fmt.Sprintf("https://news.example.com/articles/%d", len(articles)),
			Title: strings.TrimSpace(title),
			Body:  strings.TrimSpace(body),
		})
	}
	return core.NewTable(articles)
}

func main() {
	flag.Parse()

	var source iter.Seq[string]
	if *srcFileName != "" {
		var err error
		source, err = linesFromFile(*srcFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(stories)
	}

	table, err := buildTable(source)
	if err != nil {
		panic(err)
	}

	if err := parquet.NewStore().Write(context.Background(), *outFileName, table); err != nil {
		panic(err)
	}
	slog.Info("wrote sample corpus", "path", *outFileName, "articles", table.Len())
}

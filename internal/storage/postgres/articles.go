package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/idhash"
)

// articleColumns is the shared column list of every article table, after the table's own key columns.
var articleColumns = []string{
	"seq", "article_id", "source", "title", "summary", "full_text", "published",
	"link", "pulled_at", "sentiment_label", "sentiment_score", "tickers",
}

const articleSelect = `seq, article_id, source, title, summary, full_text, published,
	link, pulled_at, sentiment_label, sentiment_score, tickers`

// articleRow converts an article to CopyFrom values. keys are prepended.
func articleRow(seq int, a *domain.Article, keys ...any) []any {
	var label *string
	if a.SentimentLabel != nil {
		l := string(*a.SentimentLabel)
		label = &l
	}
	tickers := a.Tickers
	if tickers == nil {
		tickers = []string{}
	}

	row := make([]any, 0, len(keys)+len(articleColumns))
	row = append(row, keys...)
	return append(row,
		seq,
		idhash.ComputeArticleID(a.Link),
		a.Source,
		a.Title,
		a.Summary,
		a.FullText,
		a.Published,
		a.Link,
		a.PulledAt,
		label,
		a.SentimentScore,
		tickers,
	)
}

// copyArticles bulk-loads articles into table within tx. keyCols/keys identify the batch.
func copyArticles(ctx context.Context, tx pgx.Tx, table string, keyCols []string, keys []any, articles []*domain.Article) error {
	rows := make([][]any, 0, len(articles))
	for i, a := range articles {
		if a == nil {
			continue
		}
		rows = append(rows, articleRow(i, a, keys...))
	}
	if len(rows) == 0 {
		return nil
	}

	cols := append(append([]string{}, keyCols...), articleColumns...)
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(rows)); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("copy into %s: duplicate article link: %w", table, err)
		}
		return fmt.Errorf("copy into %s: %w", table, err)
	}
	return nil
}

// scanArticles scans multiple rows selected with articleSelect.
func scanArticles(rows pgx.Rows) ([]*domain.Article, error) {
	articles := []*domain.Article{}

	for rows.Next() {
		var (
			a         domain.Article
			seq       int
			articleID string
			label     *string
		)
		err := rows.Scan(
			&seq,
			&articleID,
			&a.Source,
			&a.Title,
			&a.Summary,
			&a.FullText,
			&a.Published,
			&a.Link,
			&a.PulledAt,
			&label,
			&a.SentimentScore,
			&a.Tickers,
		)
		if err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		if label != nil {
			l := domain.SentimentLabel(*label)
			a.SentimentLabel = &l
		}
		a.PulledAt = a.PulledAt.UTC()
		articles = append(articles, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}

	return articles, nil
}

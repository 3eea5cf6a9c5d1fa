package telegram

import (
	"bytes"
	"strconv"
	"strings"

	"shoof/internal/adapters/ingest/channel"
	perr "shoof/internal/platform/errors"
	ptime "shoof/internal/platform/time"

	"github.com/PuerkitoBio/goquery"
)

// Parse extracts the posts of one web preview page, in page order
// it is pure; posts with an unreadable data-post are omitted
// media-only posts come back with empty Text so paging cursors still move past them
func Parse(html []byte) ([]channel.Post, error) {
	if len(html) == 0 {
		return nil, perr.InvalidArgf("telegram page is empty")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "telegram page parse failed")
	}

	var out []channel.Post
	doc.Find(".tgme_widget_message[data-post]").Each(func(_ int, s *goquery.Selection) {
		ref, _ := s.Attr("data-post")
		name, id, ok := splitPost(ref)
		if !ok {
			return
		}
		p := channel.Post{ID: id, Channel: name}
		if body := s.Find(".tgme_widget_message_text").First(); body.Length() > 0 {
			body.Find("br").ReplaceWithHtml("\n")
			p.Text = strings.TrimSpace(body.Text())
		}
		if dt, ok := s.Find(".tgme_widget_message_date time[datetime]").First().Attr("datetime"); ok {
			if t, err := ptime.ParseUTC(dt); err == nil {
				p.PostedAt = t
			}
		}
		out = append(out, p)
	})
	return out, nil
}

// splitPost reads "<channel>/<id>"
func splitPost(ref string) (string, int64, bool) {
	name, raw, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || name == "" {
		return "", 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}
	return name, id, true
}

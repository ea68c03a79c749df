package news

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const listingHTML = `
<html><body>
<ul class="news-list">
  <li><a href="/fpt-bao-lai-quy-2.chn">FPT báo lãi quý 2 tăng 20%</a></li>
  <li><a href="/fpt-mo-rong-nhat-ban.chn">FPT mở rộng thị trường Nhật Bản</a></li>
  <li><a href="/fpt-bao-lai-quy-2.chn">FPT báo lãi quý 2 tăng 20%</a></li>
  <li><a href="">   </a></li>
</ul>
<div class="tlitem"><a href="https://cafef.vn/fpt-chia-co-tuc.chn">FPT chia cổ tức tiền mặt</a></div>
</body></html>`

func TestExtractHeadlines(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	got := extractHeadlines(doc, "https://cafef.vn", 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 headlines (duplicate and empty dropped), got %d: %+v", len(got), got)
	}
	if got[0].Title != "FPT báo lãi quý 2 tăng 20%" {
		t.Errorf("unexpected first title: %q", got[0].Title)
	}
	if got[0].URL != "https://cafef.vn/fpt-bao-lai-quy-2.chn" {
		t.Errorf("relative href not resolved: %q", got[0].URL)
	}
	if got[2].URL != "https://cafef.vn/fpt-chia-co-tuc.chn" {
		t.Errorf("absolute href should pass through: %q", got[2].URL)
	}
}

func TestExtractHeadlinesLimit(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	got := extractHeadlines(doc, "https://cafef.vn", 1)
	if len(got) != 1 {
		t.Fatalf("expected limit to cap results at 1, got %d", len(got))
	}
}

func TestAbsoluteURL(t *testing.T) {
	if got := absoluteURL("https://cafef.vn", "/a.chn"); got != "https://cafef.vn/a.chn" {
		t.Errorf("got %q", got)
	}
	if got := absoluteURL("https://cafef.vn", "https://other.vn/b.chn"); got != "https://other.vn/b.chn" {
		t.Errorf("got %q", got)
	}
}

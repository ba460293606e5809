package yandexmaps

import (
	"strings"
	"time"

	"github.com/Koveh/scrape-yandex-maps/browser"
)

// fakePage is a scripted browser.Page for extraction and pagination
// tests. Text and attribute reads come from the maps; the pagination
// fields feed Count and the snippet-link script, with each scroll
// advancing to the next step.
type fakePage struct {
	url       string
	texts     map[string]string
	textLists map[string][]string
	attrs     map[string]string // key: selector + "\x00" + attr
	attrLists map[string][]string

	waitErr error // returned by every WaitVisible call

	counts    []int
	hrefSteps [][]string
	reviews   []rawReview
	step      int
}

var _ browser.Page = (*fakePage)(nil)

func (f *fakePage) Navigate(url string) error { f.url = url; return nil }

func (f *fakePage) CurrentURL() (string, error) { return f.url, nil }

func (f *fakePage) WaitVisible(selector string, timeout time.Duration) error { return f.waitErr }

func (f *fakePage) Submit(selector, text string) error { return nil }

func (f *fakePage) Text(selector string) string { return f.texts[selector] }

func (f *fakePage) Texts(selector string) []string { return f.textLists[selector] }

func (f *fakePage) Attr(selector, attr string) string {
	return f.attrs[selector+"\x00"+attr]
}

func (f *fakePage) Attrs(selector, attr string) []string {
	return f.attrLists[selector+"\x00"+attr]
}

func (f *fakePage) Count(selector string) int {
	if len(f.counts) == 0 {
		return 0
	}
	if f.step >= len(f.counts) {
		return f.counts[len(f.counts)-1]
	}
	return f.counts[f.step]
}

func (f *fakePage) Click(selector string) error { return nil }

func (f *fakePage) Eval(js string, out any) error {
	if strings.Contains(js, "scrollIntoView") {
		f.step++
		return nil
	}
	if raws, ok := out.(*[]rawReview); ok {
		*raws = append([]rawReview{}, f.reviews...)
		return nil
	}
	if hrefs, ok := out.(*[]string); ok && f.hrefSteps != nil {
		i := f.step
		if i >= len(f.hrefSteps) {
			i = len(f.hrefSteps) - 1
		}
		*hrefs = append([]string{}, f.hrefSteps[i]...)
	}
	return nil
}

func (f *fakePage) Cookies() []browser.Cookie { return nil }

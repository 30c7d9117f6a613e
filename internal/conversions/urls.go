package conversions

import (
	"net/url"
	"strconv"

	"github.com/Wididit/Wididit-server/internal/domain"
)

// PersonPage is the web page of a person on the server at base.
func PersonPage(base *url.URL, userid domain.UserID) *url.URL {
	return base.JoinPath("web", "people", userid.String(), "/")
}

// EntryPage is the web page of an entry on the server at base.
func EntryPage(base *url.URL, ref domain.EntryRef) *url.URL {
	return base.JoinPath("web", "entry", ref.Author.String(), strconv.FormatInt(ref.Seq, 10), "/")
}

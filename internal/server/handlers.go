// internal/server/handlers.go
//
// Request handlers for the rewrite endpoints.
//
/*
Context
--------
The API struct bundles what every handler needs: the live board-config
reader (slug budget, unicodify switch) and the board base URL used for
local/external link classification.  Handlers are thin: decode, fetch
the current board snapshot, run the engine, encode.

Error contract
--------------
  • 400 – body is not valid JSON.
  • 422 – semantically unusable input (missing URL, unparsable page URL).
  • 200 – everything else; the engines themselves never fail, they
    degrade to leaving input untouched.

Notes
-----
• Page HTML arrives as a full rendered document; x/net/html wraps
  fragments in html/body on parse, and Render emits the same wrapper, so
  round-tripping is stable for the board's output.
• Oxford commas, two spaces after periods.
*/
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/rowanvale/friendlyurls/internal/boardconfig"
	"github.com/rowanvale/friendlyurls/internal/metrics"
	"github.com/rowanvale/friendlyurls/internal/rewrite"
	"github.com/rowanvale/friendlyurls/internal/unilink"
)

// API carries handler dependencies.
type API struct {
	Boards  *boardconfig.Reader
	BaseURL string
}

// NewAPI returns an API bound to a board-config reader and board base.
func NewAPI(boards *boardconfig.Reader, baseURL string) *API {
	return &API{Boards: boards, BaseURL: baseURL}
}

/*──────────────────────────── page rewrite ─────────────────────────────────*/

type pageRewriteRequest struct {
	URL        string `json:"url"`
	HTML       string `json:"html"`
	Username   string `json:"username"`
	UserID     int    `json:"userId"`
	PageStatus int    `json:"pageStatus"`
	L10N       struct {
		ViewingProfile string `json:"viewingProfile"`
	} `json:"l10n"`
}

type pageRewriteResponse struct {
	CanonicalURL string `json:"canonicalUrl"`
	HTML         string `json:"html"`
}

// handlePageRewrite runs one page through the slug engine.
func (a *API) handlePageRewrite(w http.ResponseWriter, r *http.Request) {
	var req pageRewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.URL == "" {
		httpError(w, http.StatusUnprocessableEntity, "url is required")
		return
	}
	if _, err := url.Parse(req.URL); err != nil {
		httpError(w, http.StatusUnprocessableEntity, "url is not parsable")
		return
	}

	doc, err := html.Parse(strings.NewReader(req.HTML))
	if err != nil {
		// x/net/html recovers from almost anything; treat the remainder
		// as unusable input rather than a server fault.
		httpError(w, http.StatusUnprocessableEntity, "html is not parsable")
		return
	}

	board := a.Boards.Current(r.Context())
	sess := rewrite.NewSession(
		rewrite.Config{MaxSlugLength: board.MaxSlugLength},
		rewrite.PageData{
			Username:       req.Username,
			UserID:         req.UserID,
			PageStatus:     req.PageStatus,
			ViewingProfile: req.L10N.ViewingProfile,
		},
	)
	canonical := sess.RewritePage(doc, req.URL)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		zap.S().Errorw("page render failed", "err", err)
		httpError(w, http.StatusInternalServerError, "render failed")
		return
	}

	writeJSON(w, pageRewriteResponse{
		CanonicalURL: canonical,
		HTML:         buf.String(),
	})
}

/*──────────────────────────── message render ───────────────────────────────*/

type messageRenderRequest struct {
	HTML string `json:"html"`
}

type messageRenderResponse struct {
	HTML string `json:"html"`
}

// handleMessageRender runs one message body through the link normalizer.
// When the board switch is off the body passes through untouched.
func (a *API) handleMessageRender(w http.ResponseWriter, r *http.Request) {
	var req messageRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out := req.HTML
	if a.Boards.Current(r.Context()).UnicodifyLinks {
		var replaced int
		out, replaced = unilink.NewNormalizer(a.BaseURL).RewriteCount(req.HTML)
		metrics.LinksUnicodifiedTotal.Add(float64(replaced))
	}
	metrics.MessagesRenderedTotal.Inc()

	writeJSON(w, messageRenderResponse{HTML: out})
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

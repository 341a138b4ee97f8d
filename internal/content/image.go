package content

import (
	"net/url"
	"strconv"
	"strings"
)

// ImageOptions sizes the rendered image. Zero values leave the size to the CDN.
type ImageOptions struct {
	Width  int
	Height int
}

// ImageURLBuilder turns image asset references into CDN URLs.
type ImageURLBuilder struct {
	host      string
	projectID string
	dataset   string
}

// NewImageURLBuilder creates a builder for one project and dataset.
func NewImageURLBuilder(host, projectID, dataset string) *ImageURLBuilder {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	if host == "" {
		host = "cdn.sanity.io"
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return &ImageURLBuilder{host: host, projectID: strings.TrimSpace(projectID), dataset: strings.TrimSpace(dataset)}
}

// URL resolves ref. Absolute http(s) URLs pass through unchanged; asset
// references of the form image-<id>-<w>x<h>-<format> map to the CDN path.
// Anything else, including an empty ref, yields "".
func (b *ImageURLBuilder) URL(ref string, opts ImageOptions) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if b == nil || b.projectID == "" || b.dataset == "" {
		return ""
	}
	id, dims, format, ok := parseImageRef(ref)
	if !ok {
		return ""
	}

	u := b.host + "/images/" + url.PathEscape(b.projectID) + "/" + url.PathEscape(b.dataset) + "/" + id + "-" + dims + "." + format
	query := url.Values{}
	if opts.Width > 0 {
		query.Set("w", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		query.Set("h", strconv.Itoa(opts.Height))
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func parseImageRef(ref string) (id, dims, format string, ok bool) {
	parts := strings.Split(ref, "-")
	if len(parts) < 4 || parts[0] != "image" {
		return "", "", "", false
	}
	format = parts[len(parts)-1]
	dims = parts[len(parts)-2]
	id = strings.Join(parts[1:len(parts)-2], "-")
	w, h, found := strings.Cut(dims, "x")
	if !found || id == "" || format == "" {
		return "", "", "", false
	}
	if _, err := strconv.Atoi(w); err != nil {
		return "", "", "", false
	}
	if _, err := strconv.Atoi(h); err != nil {
		return "", "", "", false
	}
	return id, dims, format, true
}

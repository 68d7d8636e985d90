package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/secretgrid/internal/source"
)

var _ = Describe("Fetcher", func() {
	var (
		server *httptest.Server
		hits   atomic.Int32
		status atomic.Int32
	)

	BeforeEach(func() {
		hits.Store(0)
		status.Store(http.StatusOK)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(int(status.Load()))
			_, _ = w.Write([]byte(letterF))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("fetches and parses the document", func() {
		f, err := source.NewFetcher()
		Expect(err).NotTo(HaveOccurred())

		records, err := f.Fetch(context.Background(), server.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(8))
	})

	It("serves repeated fetches from the cache", func() {
		f, err := source.NewFetcher(source.WithCacheSize(4))
		Expect(err).NotTo(HaveOccurred())

		first, err := f.Fetch(context.Background(), server.URL)
		Expect(err).NotTo(HaveOccurred())
		first[0].Char = "mutated"

		second, err := f.Fetch(context.Background(), server.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(second[0].Char).To(Equal("█"))
		Expect(hits.Load()).To(Equal(int32(1)))
		Expect(f.Cached()).To(Equal(1))

		f.Purge()
		Expect(f.Cached()).To(Equal(0))
		_, err = f.Fetch(context.Background(), server.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(hits.Load()).To(Equal(int32(2)))
	})

	It("does not cache when the size is zero", func() {
		f, err := source.NewFetcher(source.WithCacheSize(0))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 2; i++ {
			_, err := f.Fetch(context.Background(), server.URL)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(hits.Load()).To(Equal(int32(2)))
	})

	It("reports bad status codes", func() {
		status.Store(http.StatusNotFound)
		f, err := source.NewFetcher()
		Expect(err).NotTo(HaveOccurred())

		_, err = f.Fetch(context.Background(), server.URL)
		Expect(err).To(MatchError(source.ErrFetch))

		var httpErr *source.HTTPError
		Expect(errors.As(err, &httpErr)).To(BeTrue())
		Expect(httpErr.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("rejects documents larger than the body limit", func() {
		f, err := source.NewFetcher(source.WithMaxBodySize(64), source.WithCacheSize(4))
		Expect(err).NotTo(HaveOccurred())

		_, err = f.Fetch(context.Background(), server.URL)
		Expect(err).To(MatchError(source.ErrBodyTooLarge))
		Expect(f.Cached()).To(Equal(0))
	})

	It("stops reading streamed bodies at the limit", func() {
		streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.(http.Flusher).Flush()
			for i := 0; i < 64; i++ {
				_, _ = w.Write([]byte(letterF))
			}
		}))
		defer streaming.Close()

		f, err := source.NewFetcher(source.WithMaxBodySize(int64(len(letterF))))
		Expect(err).NotTo(HaveOccurred())

		_, err = f.Fetch(context.Background(), streaming.URL)
		Expect(err).To(MatchError(source.ErrBodyTooLarge))
	})

	It("accepts documents within the body limit", func() {
		f, err := source.NewFetcher(source.WithMaxBodySize(int64(len(letterF))))
		Expect(err).NotTo(HaveOccurred())

		records, err := f.Fetch(context.Background(), server.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(8))
	})

	It("honors context cancellation", func() {
		f, err := source.NewFetcher(source.WithTimeout(time.Second))
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = f.Fetch(ctx, server.URL)
		Expect(err).To(MatchError(source.ErrFetch))
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Open", func() {
	It("dispatches on the location form", func() {
		Expect(source.IsURL("https://docs.google.com/document/d/x/pub")).To(BeTrue())
		Expect(source.IsURL("http://example.com")).To(BeTrue())
		Expect(source.IsURL("./doc.html")).To(BeFalse())
	})

	It("reads files that are not URLs", func() {
		path := filepath.Join(GinkgoT().TempDir(), "doc.html")
		Expect(os.WriteFile(path, []byte(letterF), 0644)).To(Succeed())

		f, err := source.NewFetcher()
		Expect(err).NotTo(HaveOccurred())
		records, err := source.Open(context.Background(), f, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(8))
	})
})

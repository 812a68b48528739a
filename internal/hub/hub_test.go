package hub_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chatooly/internal/hub"
)

type response struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Count    int              `json:"count"`
	Tools    []map[string]any `json:"tools"`
	URL      string           `json:"url"`
	Actual   string           `json:"actualName"`
	Received map[string]any   `json:"received"`
}

var _ = Describe("Server", func() {
	var (
		public string
		tools  string
		srv    *hub.Server
	)

	BeforeEach(func() {
		var err error
		public, err = os.MkdirTemp("", "hub")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, public)
		tools = filepath.Join(public, "tools")
		Expect(os.MkdirAll(tools, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>hub</h1>"), 0o644)).To(Succeed())

		srv = hub.New(hub.Options{PublicDir: public, ToolsDir: tools, BaseURL: "http://hub.test"}, nil)
	})

	do := func(method, path, body string) (*httptest.ResponseRecorder, response) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		var r response
		if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
			Expect(json.Unmarshal(rec.Body.Bytes(), &r)).To(Succeed())
		}
		return rec, r
	}

	publishBody := `{"toolName":"My Cool Tool!","metadata":{"author":"sam"},"files":{"index.html":"<p>tool</p>"}}`

	Describe("CORS and methods", func() {
		DescribeTable("preflight",
			func(path, methods string) {
				rec, _ := do(http.MethodOptions, path, "")
				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(rec.Body.Len()).To(BeZero())
				Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
				Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(Equal(methods))
			},
			Entry("catalog", "/api/catalog", "GET, OPTIONS"),
			Entry("publish", "/api/publish", "POST, OPTIONS"),
			Entry("test", "/api/test", "POST, OPTIONS"),
		)

		It("allows the source header on publish", func() {
			rec, _ := do(http.MethodOptions, "/api/publish", "")
			Expect(rec.Header().Get("Access-Control-Allow-Headers")).To(Equal("Content-Type, X-Chatooly-Source"))
		})

		DescribeTable("wrong verb",
			func(method, path, msg string) {
				rec, r := do(method, path, "")
				Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
				Expect(r.Success).To(BeFalse())
				Expect(r.Message).To(Equal(msg))
				Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
			},
			Entry("POST catalog", http.MethodPost, "/api/catalog", "Method not allowed. Use GET."),
			Entry("GET publish", http.MethodGet, "/api/publish", "Method not allowed. Use POST."),
			Entry("DELETE publish", http.MethodDelete, "/api/publish", "Method not allowed. Use POST."),
			Entry("GET test", http.MethodGet, "/api/test", "Method not allowed"),
		)
	})

	Describe("catalog", func() {
		It("lists published tools", func() {
			rec, r := do(http.MethodGet, "/api/catalog", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(r.Success).To(BeTrue())
			Expect(r.Count).To(BeZero())
			Expect(r.Tools).To(BeEmpty())

			do(http.MethodPost, "/api/publish", publishBody)

			_, r = do(http.MethodGet, "/api/catalog", "")
			Expect(r.Count).To(Equal(1))
			Expect(r.Tools[0]).To(HaveKeyWithValue("slug", "my-cool-tool"))
			Expect(r.Tools[0]).To(HaveKeyWithValue("url", "/tools/my-cool-tool"))
			Expect(r.Tools[0]).To(HaveKeyWithValue("author", "Anonymous"))
		})
	})

	Describe("publish", func() {
		It("writes the tool and reports its URL", func() {
			rec, r := do(http.MethodPost, "/api/publish", publishBody)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(r.Success).To(BeTrue())
			Expect(r.Actual).To(Equal("my-cool-tool"))
			Expect(r.URL).To(Equal("http://hub.test/tools/my-cool-tool"))
			Expect(filepath.Join(tools, "my-cool-tool", "index.html")).To(BeAnExistingFile())
		})

		It("rejects a submission without index.html", func() {
			rec, r := do(http.MethodPost, "/api/publish", `{"toolName":"t","files":{"main.js":"x"}}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(r.Message).To(Equal("index.html file is required"))
		})

		It("rejects a missing name", func() {
			rec, r := do(http.MethodPost, "/api/publish", `{"files":{"index.html":"x"}}`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(r.Message).To(Equal("Tool name is required"))
		})

		It("rejects malformed JSON", func() {
			rec, r := do(http.MethodPost, "/api/publish", `{"toolName":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(r.Success).To(BeFalse())
		})

		It("answers 413 when the body exceeds the limit", func() {
			srv = hub.New(hub.Options{PublicDir: public, ToolsDir: tools, MaxBodyBytes: 64}, nil)
			body := `{"toolName":"big","files":{"index.html":"` + strings.Repeat("x", 256) + `"}}`
			rec, r := do(http.MethodPost, "/api/publish", body)
			Expect(rec.Code).To(Equal(http.StatusRequestEntityTooLarge))
			Expect(r.Success).To(BeFalse())
			Expect(r.Message).To(Equal("Request body exceeds 64 bytes"))
			Expect(filepath.Join(tools, "big")).NotTo(BeADirectory())
		})
	})

	It("echoes test submissions", func() {
		rec, r := do(http.MethodPost, "/api/test", `{"toolName":"probe","files":{"a":"1","b":"2"}}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(r.Message).To(Equal("API is working!"))
		Expect(r.Received).To(HaveKeyWithValue("toolName", "probe"))
		Expect(r.Received).To(HaveKeyWithValue("fileCount", BeNumerically("==", 2)))
		Expect(filepath.Join(tools, "probe")).NotTo(BeADirectory())
	})

	Describe("static files", func() {
		It("serves the public site", func() {
			rec, _ := do(http.MethodGet, "/", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("hub"))
		})

		It("serves published tools", func() {
			do(http.MethodPost, "/api/publish", publishBody)
			rec, _ := do(http.MethodGet, "/tools/my-cool-tool/index.html", "")
			Expect(rec.Code).To(BeElementOf(http.StatusOK, http.StatusMovedPermanently))
			rec, _ = do(http.MethodGet, "/tools/my-cool-tool/", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("<p>tool</p>"))
		})

		It("404s unknown paths", func() {
			rec, r := do(http.MethodGet, "/nope.html", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(r.Success).To(BeFalse())
		})
	})

	It("shuts down when the context ends", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		Eventually(func() error {
			resp, err := http.Get("http://" + ln.Addr().String() + "/api/catalog")
			if err == nil {
				resp.Body.Close()
			}
			return err
		}).WithTimeout(2 * time.Second).Should(Succeed())

		cancel()
		Eventually(done).WithTimeout(6 * time.Second).Should(Receive(BeNil()))
	})
})

package publish_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chatooly/internal/publish"
)

var _ = DescribeTable("Slugify",
	func(in, want string) {
		Expect(publish.Slugify(in)).To(Equal(want))
	},
	Entry("punctuation", "My Cool Tool!", "my-cool-tool"),
	Entry("padding and hyphens", "  -- Test --  ", "test"),
	Entry("already a slug", "reaction-diffusion", "reaction-diffusion"),
	Entry("digits kept", "Tool 2000", "tool-2000"),
	Entry("non-ascii", "Café Über", "caf-ber"),
	Entry("nothing usable", "!!!", ""),
)

func requestError(err error) *publish.RequestError {
	var re *publish.RequestError
	Expect(errors.As(err, &re)).To(BeTrue(), "expected a RequestError, got %v", err)
	return re
}

var _ = Describe("Service", func() {
	var (
		root string
		svc  *publish.Service
		ctx  = context.Background()
		now  = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	)

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "publish")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)
		svc = publish.NewService(root, "https://hub.example/", nil)
		svc.Now = func() time.Time { return now }
	})

	DescribeTable("rejects invalid requests",
		func(req publish.Request, msg string) {
			_, err := svc.Publish(ctx, &req)
			re := requestError(err)
			Expect(re.Status).To(Equal(http.StatusBadRequest))
			Expect(re.Message).To(Equal(msg))
		},
		Entry("no name", publish.Request{Files: map[string]string{"index.html": "x"}}, "Tool name is required"),
		Entry("no files", publish.Request{ToolName: "t"}, "Tool files are required"),
		Entry("no index", publish.Request{ToolName: "t", Files: map[string]string{"main.js": "x"}}, "index.html file is required"),
		Entry("empty index", publish.Request{ToolName: "t", Files: map[string]string{"index.html": ""}}, "index.html file is required"),
		Entry("empty slug", publish.Request{ToolName: "???", Files: map[string]string{"index.html": "x"}}, "Tool name must contain letters or digits"),
		Entry("escaping path", publish.Request{ToolName: "t", Files: map[string]string{"index.html": "x", "../evil.js": "x"}}, "invalid file path: ../evil.js"),
	)

	It("writes nothing for a rejected request", func() {
		_, err := svc.Publish(ctx, &publish.Request{ToolName: "t", Files: map[string]string{"a.js": "x"}})
		Expect(err).To(HaveOccurred())
		entries, _ := os.ReadDir(root)
		Expect(entries).To(BeEmpty())
	})

	It("writes text and binary files", func() {
		png := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
		res, err := svc.Publish(ctx, &publish.Request{
			ToolName: "My Cool Tool!",
			Metadata: map[string]any{"author": "sam"},
			Files: map[string]string{
				"index.html":        "<h1>hi</h1>",
				"js/main.js":        "console.log(1)",
				"assets/logo.png":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
				"notes/data-uri.md": "data:text/plain,not base64",
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Success).To(BeTrue())
		Expect(res.ActualName).To(Equal("my-cool-tool"))
		Expect(res.RequestedName).To(Equal("My Cool Tool!"))
		Expect(res.URL).To(Equal("https://hub.example/tools/my-cool-tool"))
		Expect(res.PublishedAt).To(Equal(now))
		Expect(res.Message).To(ContainSubstring("adjusted for availability"))
		Expect(res.Metadata).To(HaveKeyWithValue("slug", "my-cool-tool"))
		Expect(res.Metadata).To(HaveKeyWithValue("author", "sam"))

		dir := filepath.Join(root, "my-cool-tool")
		Expect(os.ReadFile(filepath.Join(dir, "index.html"))).To(Equal([]byte("<h1>hi</h1>")))
		Expect(os.ReadFile(filepath.Join(dir, "js", "main.js"))).To(Equal([]byte("console.log(1)")))
		Expect(os.ReadFile(filepath.Join(dir, "assets", "logo.png"))).To(Equal(png))
		Expect(os.ReadFile(filepath.Join(dir, "notes", "data-uri.md"))).To(Equal([]byte("data:text/plain,not base64")))
	})

	DescribeTable("decodes lenient base64 payloads",
		func(content string, want []byte) {
			_, err := svc.Publish(ctx, &publish.Request{
				ToolName: "blob",
				Files:    map[string]string{"index.html": "x", "a.bin": content},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(filepath.Join(root, "blob", "a.bin"))).To(Equal(want))
		},
		Entry("padded", "data:application/octet-stream;base64,aGk=", []byte("hi")),
		Entry("unpadded", "data:application/octet-stream;base64,aGk", []byte("hi")),
		Entry("url-safe", "data:application/octet-stream;base64,-_8", []byte{0xfb, 0xff}),
		Entry("undecodable kept as text", "data:image/png;base64,@@@", []byte("data:image/png;base64,@@@")),
	)

	It("suffixes colliding names", func() {
		req := &publish.Request{ToolName: "waves", Files: map[string]string{"index.html": "x"}}

		first, err := svc.Publish(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.ActualName).To(Equal("waves"))
		Expect(first.Message).To(Equal("Tool published successfully!"))

		second, err := svc.Publish(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ActualName).To(Equal("waves-2"))

		third, err := svc.Publish(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(third.ActualName).To(Equal("waves-3"))
		Expect(third.Message).To(Equal(`Tool published as "waves-3" (name was adjusted for availability)`))
	})
})

var _ = Describe("UniqueSlug", func() {
	It("skips taken names", func() {
		root, err := os.MkdirTemp("", "slug")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)
		for _, d := range []string{"tool", "tool-2"} {
			Expect(os.Mkdir(filepath.Join(root, d), 0o755)).To(Succeed())
		}
		Expect(publish.UniqueSlug(root, "tool")).To(Equal("tool-3"))
		Expect(publish.UniqueSlug(root, "fresh")).To(Equal("fresh"))
	})
})

var _ = Describe("Pack", func() {
	It("round-trips through Publish", func() {
		src, err := os.MkdirTemp("", "pack")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, src)
		Expect(os.MkdirAll(filepath.Join(src, "img"), 0o755)).To(Succeed())
		Expect(os.MkdirAll(filepath.Join(src, ".git"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(src, "index.html"), []byte("<p>x</p>"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(src, "img", "dot.png"), []byte{0x89, 0, 0xff}, 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref"), 0o644)).To(Succeed())

		files, err := publish.Pack(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(2))
		Expect(files["index.html"]).To(Equal("<p>x</p>"))
		Expect(files["img/dot.png"]).To(HavePrefix("data:image/png;base64,"))

		dst, err := os.MkdirTemp("", "pack-dst")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dst)
		_, err = publish.NewService(dst, "", nil).Publish(context.Background(), &publish.Request{ToolName: "dot", Files: files})
		Expect(err).NotTo(HaveOccurred())
		Expect(os.ReadFile(filepath.Join(dst, "dot", "img", "dot.png"))).To(Equal([]byte{0x89, 0, 0xff}))
	})

	It("sniffs the type of files without an extension", func() {
		src, err := os.MkdirTemp("", "pack")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, src)
		png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
		Expect(os.WriteFile(filepath.Join(src, "thumbnail"), png, 0o644)).To(Succeed())

		files, err := publish.Pack(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(files["thumbnail"]).To(HavePrefix("data:image/png;base64,"))
	})
})

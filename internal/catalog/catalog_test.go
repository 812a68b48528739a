package catalog_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chatooly/internal/catalog"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func writeFile(path, content string) {
	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
}

func addTool(root, slug string, age time.Duration) string {
	dir := filepath.Join(root, slug)
	index := filepath.Join(dir, "index.html")
	writeFile(index, "<html></html>")
	mt := base.Add(-age)
	Expect(os.Chtimes(index, mt, mt)).To(Succeed())
	return dir
}

var _ = Describe("Discover", func() {
	var root string

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "catalog")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)
	})

	It("returns an empty list for a missing directory", func() {
		tools, err := catalog.Discover(filepath.Join(root, "nope"))
		Expect(err).NotTo(HaveOccurred())
		Expect(tools).To(BeEmpty())
	})

	It("lists only directories with index.html and skips reserved names", func() {
		addTool(root, "alpha", time.Hour)
		addTool(root, "staging", 0)
		addTool(root, "live", 0)
		addTool(root, ".hidden", 0)
		writeFile(filepath.Join(root, "empty", "readme.txt"), "no index")
		writeFile(filepath.Join(root, "index.html"), "top level file")

		tools, err := catalog.Discover(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(tools).To(HaveLen(1))
		Expect(tools[0].Slug).To(Equal("alpha"))
	})

	It("sorts newest first", func() {
		addTool(root, "old", 3*time.Hour)
		addTool(root, "new", time.Minute)
		addTool(root, "mid", time.Hour)

		tools, err := catalog.Discover(root)
		Expect(err).NotTo(HaveOccurred())
		slugs := []string{}
		for _, t := range tools {
			slugs = append(slugs, t.Slug)
		}
		Expect(slugs).To(Equal([]string{"new", "mid", "old"}))
		Expect(tools[0].CreatedAt).To(BeTemporally("~", base.Add(-time.Minute), time.Second))
	})

	It("fills defaults when no metadata exists", func() {
		addTool(root, "my-cool-tool", 0)

		tools, err := catalog.Discover(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(tools[0]).To(Equal(catalog.Tool{
			Name:        "My Cool Tool",
			Slug:        "my-cool-tool",
			Description: catalog.DefaultDescription,
			Author:      catalog.DefaultAuthor,
			Category:    catalog.DefaultCategory,
			Version:     catalog.DefaultVersion,
			URL:         "/tools/my-cool-tool",
			CreatedAt:   tools[0].CreatedAt,
		}))
	})

	It("reads the config script", func() {
		dir := addTool(root, "lanyard", 0)
		writeFile(filepath.Join(dir, "js", "chatooly-config.js"), `window.ChatoolyConfig = {
    name: "Lanyard Toy",
    category: "art",
    tags: ["creative", "art"],
    description: "",
    version: "2.1.0",
    author: 'yael'
};`)

		tools, err := catalog.Discover(root)
		Expect(err).NotTo(HaveOccurred())
		t := tools[0]
		Expect(t.Name).To(Equal("Lanyard Toy"))
		Expect(t.Category).To(Equal("art"))
		Expect(t.Author).To(Equal("yael"))
		Expect(t.Version).To(Equal("2.1.0"))
		Expect(t.Description).To(Equal(catalog.DefaultDescription))
		Expect(t.Tags).To(Equal([]string{"creative", "art"}))
	})

	It("prefers a structured manifest over the script", func() {
		dir := addTool(root, "waves", 0)
		writeFile(filepath.Join(dir, "chatooly.yaml"), "name: Waves\nauthor: sam\ntags: [fluid]\n")
		writeFile(filepath.Join(dir, "js", "chatooly-config.js"), `name: "Ignored"`)

		tools, err := catalog.Discover(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(tools[0].Name).To(Equal("Waves"))
		Expect(tools[0].Author).To(Equal("sam"))
		Expect(tools[0].Category).To(Equal(catalog.DefaultCategory))
		Expect(tools[0].Tags).To(ConsistOf("fluid"))
	})

	It("parses JSON manifests", func() {
		dir := addTool(root, "grid", 0)
		writeFile(filepath.Join(dir, "chatooly.json"), `{"name": "Grid", "version": "0.3.0"}`)

		tools, err := catalog.Discover(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(tools[0].Name).To(Equal("Grid"))
		Expect(tools[0].Version).To(Equal("0.3.0"))
	})

	It("keeps defaults when the manifest is malformed", func() {
		dir := addTool(root, "broken", 0)
		writeFile(filepath.Join(dir, "chatooly.yaml"), "name: [unterminated\n")

		tools, err := catalog.Discover(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(tools[0].Name).To(Equal("Broken"))
	})
})

var _ = DescribeTable("TitleCase",
	func(in, want string) {
		Expect(catalog.TitleCase(in)).To(Equal(want))
	},
	Entry("hyphens", "my-cool-tool", "My Cool Tool"),
	Entry("single", "lanyard", "Lanyard"),
	Entry("digits", "tool-2", "Tool 2"),
	Entry("underscore stays in word", "snake_case", "Snake_case"),
)

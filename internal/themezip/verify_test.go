package themezip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcdonald/giftkit/internal/manifest"
	"github.com/jmcdonald/giftkit/internal/ports"
)

func addSource(f *fixture, files map[string]string) {
	for name, content := range files {
		f.fs.AddFile("/work/gifteez-wp-theme/"+name, []byte(content))
	}
}

func archiveOf(files map[string]string) map[string]ports.FileInfo {
	listing := make(map[string]ports.FileInfo)
	for name, content := range files {
		listing[name] = crcInfo(content)
	}
	return listing
}

func TestVerifyUpToDate(t *testing.T) {
	files := map[string]string{
		"style.css":         "body {}\n",
		"functions.php":     "<?php\n",
		"inc/templates.php": "<?php // tpl\n",
	}
	f := newFixture()
	addSource(f, files)
	addSource(f, map[string]string{"node_modules/pkg/index.js": "ignored"})
	f.archiver.ListResults["/work/gifteez-wp-theme.zip"] = archiveOf(files)

	report, err := f.svc.Verify(testOptions(), false)
	require.NoError(t, err)

	assert.Empty(t, report.Changes)
	assert.Equal(t, 3, report.Entries)
	assert.Equal(t, 3, report.Files)
	assert.Nil(t, report.Manifest)
	assert.NoError(t, report.Err())
}

func TestVerifyReportsChanges(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{
		"style.css":     "body { color: red; }\n",
		"functions.php": "<?php\n",
		"footer.php":    "<footer/>\n",
	})
	f.archiver.ListResults["/work/gifteez-wp-theme.zip"] = archiveOf(map[string]string{
		"style.css":     "body {}\n",
		"functions.php": "<?php\n",
		"header.php":    "<header/>\n",
	})

	report, err := f.svc.Verify(testOptions(), false)
	require.NoError(t, err)

	assert.Equal(t, []FileChange{
		{Path: "style.css", Status: Modified, ArchiveSize: 8, SourceSize: 21},
		{Path: "footer.php", Status: Added, SourceSize: 10},
		{Path: "header.php", Status: Deleted, ArchiveSize: 10},
	}, report.Changes)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Modified)
	assert.Equal(t, 1, report.Deleted)
	assert.Empty(t, report.Diffs)

	err = report.Err()
	require.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "1 added, 1 modified, 1 deleted")
}

func TestVerifyExcludedEntryInArchive(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{
		"style.css":             "body {}\n",
		"node_modules/left-pad": "x",
	})
	f.archiver.ListResults["/work/gifteez-wp-theme.zip"] = archiveOf(map[string]string{
		"style.css":             "body {}\n",
		"node_modules/left-pad": "x",
	})

	report, err := f.svc.Verify(testOptions(), false)
	require.NoError(t, err)

	require.Len(t, report.Changes, 1)
	assert.Equal(t, FileChange{Path: "node_modules/left-pad", Status: Deleted, ArchiveSize: 1}, report.Changes[0])
}

func TestVerifySkipsOwnOutput(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{
		"style.css": "body {}\n",
		"theme.zip": "PK",
	})
	f.archiver.ListResults["/work/gifteez-wp-theme/theme.zip"] = archiveOf(map[string]string{
		"style.css": "body {}\n",
	})

	opts := testOptions()
	opts.Output = "/work/gifteez-wp-theme/theme.zip"
	report, err := f.svc.Verify(opts, false)
	require.NoError(t, err)
	assert.Empty(t, report.Changes)
	assert.Equal(t, 1, report.Files)
}

func TestVerifyWithDiff(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{
		"style.css": "a {}\nb { color: blue; }\nc {}\n",
		"logo.png":  "\x89PNG\x00\x01",
	})
	f.archiver.ListResults["/work/gifteez-wp-theme.zip"] = archiveOf(map[string]string{
		"style.css": "a {}\nb {}\nc {}\n",
		"logo.png":  "\x89PNG\x00\x02",
	})
	f.archiver.ReadResults["/work/gifteez-wp-theme.zip:style.css"] = "a {}\nb {}\nc {}\n"
	f.archiver.ReadResults["/work/gifteez-wp-theme.zip:logo.png"] = "\x89PNG\x00\x02"

	report, err := f.svc.Verify(testOptions(), true)
	require.NoError(t, err)
	require.Len(t, report.Diffs, 2)

	png := report.Diffs[0]
	assert.Equal(t, "logo.png", png.Path)
	assert.True(t, png.IsBinary)
	assert.Empty(t, png.Lines)

	css := report.Diffs[1]
	assert.Equal(t, "style.css", css.Path)
	assert.Equal(t, []DiffLine{
		{LineNum1: 1, LineNum2: 1, Type: ' ', Content: "a {}"},
		{LineNum1: 2, Type: '-', Content: "b {}"},
		{LineNum2: 2, Type: '+', Content: "b { color: blue; }"},
		{LineNum1: 3, LineNum2: 3, Type: ' ', Content: "c {}"},
	}, css.Lines)
}

func TestVerifyDiffReadError(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{"style.css": "new\n"})
	f.archiver.ListResults["/work/gifteez-wp-theme.zip"] = archiveOf(map[string]string{"style.css": "old\n"})

	report, err := f.svc.Verify(testOptions(), true)
	require.NoError(t, err)
	require.Len(t, report.Diffs, 1)
	assert.Contains(t, report.Diffs[0].Error, "reading archive copy")
}

func TestVerifyMissingSource(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Verify(testOptions(), false)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestVerifyUnreadableSourceFile(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{"style.css": "x"})
	f.fs.Errors["/work/gifteez-wp-theme/style.css"] = os.ErrPermission

	_, err := f.svc.Verify(testOptions(), false)
	require.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "scanning source")
}

func TestVerifyManifestChecksum(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{"style.css": "body {}\n"})
	f.archiver.ListResults["/work/gifteez-wp-theme.zip"] = archiveOf(map[string]string{"style.css": "body {}\n"})
	f.fs.AddFile("/work/gifteez-wp-theme.zip", []byte("archive bytes"))

	m := &manifest.Manifest{Archive: "/work/gifteez-wp-theme.zip", SHA256: "0000"}
	data, err := m.Marshal()
	require.NoError(t, err)
	f.fs.AddFile("/work/gifteez-wp-theme.zip.manifest.json", data)

	report, err := f.svc.Verify(testOptions(), false)
	require.NoError(t, err)
	require.NotNil(t, report.Manifest)
	assert.False(t, report.Manifest.OK())
	assert.ErrorIs(t, report.Err(), ErrMismatch)
	assert.Contains(t, report.Err().Error(), "manifest records 0000")
}

func TestVerifyCorruptManifest(t *testing.T) {
	f := newFixture()
	addSource(f, map[string]string{"style.css": "body {}\n"})
	f.fs.AddFile("/work/gifteez-wp-theme.zip.manifest.json", []byte("{"))

	_, err := f.svc.Verify(testOptions(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing manifest")
}

func TestVerifyAfterRebuildWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "gifteez-wp-theme")
	require.NoError(t, os.MkdirAll(source, 0755))
	style := filepath.Join(source, "style.css")
	require.NoError(t, os.WriteFile(style, []byte("body { margin: 0; }\n"), 0644))

	opts := Options{
		SourceDir: source,
		Output:    filepath.Join(dir, "gifteez-wp-theme.zip"),
		Exclude:   []string{"node_modules"},
		Manifest:  true,
	}
	svc := NewDefaultService(nil)

	_, err := svc.Build(opts)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(style, []byte("body { margin: 4px; }\n"), 0644))
	opts.Manifest = false
	_, err = svc.Build(opts)
	require.NoError(t, err)
	assert.NoFileExists(t, manifest.PathFor(opts.Output))

	report, err := svc.Verify(opts, false)
	require.NoError(t, err)
	assert.Nil(t, report.Manifest)
	assert.NoError(t, report.Err())
}

// End to end over the real filesystem and zip adapter.
func TestBuildThenVerify(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "gifteez-wp-theme")
	write := func(rel, content string) {
		path := filepath.Join(source, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("style.css", "/* Theme Name: Gifteez */\n")
	write("functions.php", "<?php\n")
	write("assets/js/app.js", "console.log('hi')\n")
	write("node_modules/pkg/index.js", "module.exports = 1\n")

	opts := Options{
		SourceDir: source,
		Output:    filepath.Join(dir, "gifteez-wp-theme.zip"),
		Exclude:   []string{"node_modules"},
		Manifest:  true,
	}
	svc := NewDefaultService(nil)

	result, err := svc.Build(opts)
	require.NoError(t, err)
	assert.Equal(t, 3, result.FileCount)
	assert.FileExists(t, result.Manifest)

	entries, err := svc.List(opts)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"assets/js/app.js", "functions.php", "style.css"}, names)

	report, err := svc.Verify(opts, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.NotNil(t, report.Manifest)
	assert.True(t, report.Manifest.OK())

	write("style.css", "/* Theme Name: Gifteez 2 */\n")
	write("header.php", "<header/>\n")
	require.NoError(t, os.Remove(filepath.Join(source, "functions.php")))

	report, err = svc.Verify(opts, true)
	require.NoError(t, err)
	assert.ErrorIs(t, report.Err(), ErrMismatch)

	var statuses []string
	for _, c := range report.Changes {
		statuses = append(statuses, string(c.Status)+" "+c.Path)
	}
	assert.Equal(t, []string{"M style.css", "A header.php", "D functions.php"}, statuses)

	require.Len(t, report.Diffs, 1)
	assert.Equal(t, []DiffLine{
		{LineNum1: 1, Type: '-', Content: "/* Theme Name: Gifteez */"},
		{LineNum2: 1, Type: '+', Content: "/* Theme Name: Gifteez 2 */"},
	}, report.Diffs[0].Lines)
}

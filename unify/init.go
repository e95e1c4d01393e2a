package unify

import (
	"os"
	"path/filepath"

	"github.com/fwdslsh/toolkit"
)

const starterConfig = `# Site configuration.
title: My Site

# Canonical URL for sitemap.xml generation.
# base_url: https://example.com

# Build output directory.
output: dist

# Asset globs. Pages (.html, .md) are always built.
assets:
  include:
    - "**/*"
  exclude: []
`

const starterLayout = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title><!--#echo var="title" --></title>
</head>
<body>
  <main>
    <!--#echo var="content" -->
  </main>
</body>
</html>
`

const starterIndex = `<!--#set var="title" value="Home" -->
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title><!--#echo var="title" --></title>
</head>
<body>
  <h1>Welcome</h1>
  <p>Edit index.html to get started.</p>
</body>
</html>
`

// Scaffold writes a starter site into dir: unify.yaml, index.html, and a
// default layout. An existing unify.yaml is never overwritten.
func Scaffold(dir string) error {
	configPath := filepath.Join(dir, configFile)
	if _, err := os.Stat(configPath); err == nil {
		return toolkit.Errorf(toolkit.ECONFLICT, "%s already exists in %s.", configFile, dir)
	}

	if err := os.MkdirAll(filepath.Join(dir, includesDir), 0755); err != nil {
		return err
	}

	files := []struct {
		path    string
		content string
	}{
		{configPath, starterConfig},
		{filepath.Join(dir, "index.html"), starterIndex},
		{filepath.Join(dir, includesDir, defaultLayout), starterLayout},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return err
		}
	}
	return nil
}

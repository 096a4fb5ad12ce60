package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gear6io/hivebridge/pkg/errors"
)

const errorsPackage = "github.com/gear6io/hivebridge/pkg/errors"

// CodeInfo is one error code declared with errors.MustNewCode
type CodeInfo struct {
	Name    string
	Value   string
	Package string
	File    string
	Line    int
	Uses    int
}

// Finding is a single rule violation
type Finding struct {
	File    string
	Line    int
	Message string
}

// Checker walks a source tree collecting error code declarations, their
// uses and calls that bypass pkg/errors
type Checker struct {
	cfg   *Config
	fset  *token.FileSet
	root  string
	codes map[string]*CodeInfo // keyed by package dir + name

	Invalid   []Finding
	Forbidden []Finding
}

// NewChecker creates a checker
func NewChecker(cfg *Config) *Checker {
	return &Checker{
		cfg:   cfg,
		fset:  token.NewFileSet(),
		codes: make(map[string]*CodeInfo),
	}
}

// CheckDirectory checks every .go file under root
func (c *Checker) CheckDirectory(root string) error {
	c.root = root

	var files []*ast.File
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := c.rel(path)
		if d.IsDir() {
			if rel != "." && c.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		file, err := parser.ParseFile(c.fset, path, nil, parser.ParseComments)
		if err != nil {
			return errors.New(CheckerParseFailed, "failed to parse file", err).AddContext("file", rel)
		}
		files = append(files, file)
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}

	// declarations first so uses in any order are counted
	for i, file := range files {
		c.collectDeclarations(file, paths[i])
	}
	for i, file := range files {
		c.collectUses(file, paths[i])
		c.checkForbidden(file, paths[i])
	}
	return nil
}

func (c *Checker) collectDeclarations(file *ast.File, path string) {
	local := localName(file, errorsPackage)
	if local == "" && file.Name.Name != "errors" {
		return
	}

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, name := range vs.Names {
				if i >= len(vs.Values) {
					continue
				}
				value, ok := mustNewCodeArg(vs.Values[i], local)
				if !ok {
					continue
				}
				pos := c.fset.Position(name.Pos())
				info := &CodeInfo{
					Name:    name.Name,
					Value:   value,
					Package: file.Name.Name,
					File:    c.rel(path),
					Line:    pos.Line,
				}
				c.codes[c.key(path, name.Name)] = info
				if _, err := errors.NewCode(value); err != nil {
					c.Invalid = append(c.Invalid, Finding{File: info.File, Line: info.Line, Message: err.Error()})
				}
			}
		}
	}
}

// mustNewCodeArg matches errors.MustNewCode("literal"); inside pkg/errors
// itself the call is unqualified
func mustNewCodeArg(expr ast.Expr, local string) (string, bool) {
	call, ok := expr.(*ast.CallExpr)
	if !ok || len(call.Args) != 1 {
		return "", false
	}
	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		pkg, ok := fn.X.(*ast.Ident)
		if !ok || pkg.Name != local || fn.Sel.Name != "MustNewCode" {
			return "", false
		}
	case *ast.Ident:
		if fn.Name != "MustNewCode" {
			return "", false
		}
	default:
		return "", false
	}
	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (c *Checker) collectUses(file *ast.File, path string) {
	imports := importDirs(file)
	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.SelectorExpr:
			pkg, ok := node.X.(*ast.Ident)
			if !ok {
				return true
			}
			if dir, ok := imports[pkg.Name]; ok {
				for _, info := range c.codes {
					if info.Name == node.Sel.Name && strings.HasSuffix(dir, filepath.ToSlash(filepath.Dir(info.File))) {
						info.Uses++
					}
				}
			}
			return false
		case *ast.Ident:
			if info, ok := c.codes[c.key(path, node.Name)]; ok {
				// the declaring identifier itself is not a use
				if c.fset.Position(node.Pos()).Line != info.Line || c.rel(path) != info.File {
					info.Uses++
				}
			}
		}
		return true
	})
}

func (c *Checker) checkForbidden(file *ast.File, path string) {
	rel := c.rel(path)
	if strings.HasSuffix(rel, "_test.go") || c.allowed(rel) {
		return
	}

	calls := make(map[string]string)
	for _, fc := range c.cfg.ForbiddenCalls {
		if local := localName(file, fc.Package); local != "" {
			calls[local+"."+fc.Function] = fc.Package + "." + fc.Function
		}
	}
	if len(calls) == 0 {
		return
	}

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		if name, ok := calls[pkg.Name+"."+sel.Sel.Name]; ok {
			c.Forbidden = append(c.Forbidden, Finding{
				File:    rel,
				Line:    c.fset.Position(call.Pos()).Line,
				Message: name + " bypasses pkg/errors; use errors.New with an error code",
			})
		}
		return true
	})
}

// Codes returns the declared codes sorted by file and line
func (c *Checker) Codes() []*CodeInfo {
	codes := make([]*CodeInfo, 0, len(c.codes))
	for _, info := range c.codes {
		codes = append(codes, info)
	}
	sort.Slice(codes, func(i, j int) bool {
		if codes[i].File != codes[j].File {
			return codes[i].File < codes[j].File
		}
		return codes[i].Line < codes[j].Line
	})
	return codes
}

// Unused returns the codes never referenced
func (c *Checker) Unused() []*CodeInfo {
	var unused []*CodeInfo
	for _, info := range c.Codes() {
		if info.Uses == 0 {
			unused = append(unused, info)
		}
	}
	return unused
}

// Duplicates returns code values declared more than once
func (c *Checker) Duplicates() map[string][]*CodeInfo {
	byValue := make(map[string][]*CodeInfo)
	for _, info := range c.Codes() {
		byValue[info.Value] = append(byValue[info.Value], info)
	}
	for value, infos := range byValue {
		if len(infos) < 2 {
			delete(byValue, value)
		}
	}
	return byValue
}

func (c *Checker) key(path, name string) string {
	return filepath.Dir(c.rel(path)) + ":" + name
}

func (c *Checker) rel(path string) string {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (c *Checker) excluded(rel string) bool {
	for _, p := range c.cfg.ExcludePaths {
		if strings.HasPrefix(rel, p) || strings.Contains(rel, "/"+p) {
			return true
		}
	}
	return false
}

func (c *Checker) allowed(rel string) bool {
	for _, p := range c.cfg.AllowedPaths {
		if strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

// localName returns the name a file uses for an import path, or ""
func localName(file *ast.File, importPath string) string {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != importPath {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				return ""
			}
			return imp.Name.Name
		}
		return filepath.Base(path)
	}
	return ""
}

// importDirs maps local import names to import paths
func importDirs(file *ast.File) map[string]string {
	dirs := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := filepath.Base(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		dirs[name] = path
	}
	return dirs
}

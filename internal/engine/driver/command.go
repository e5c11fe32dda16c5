package driver

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

const languageRemediation = "set language: on the generated target in kiln.yaml"

// Command synthesizes the argument vector that builds t with tool.
// Sources are never built and yield a nil vector.
func Command(tool domain.Tool, t *domain.Target) ([]string, error) {
	argv := tool.Prefix()

	switch t.Kind() {
	case domain.KindSource:
		return nil, nil
	case domain.KindObject:
		argv = append(argv, "-c", t.Source())
	case domain.KindSharedLibrary:
		argv = appendChildPaths(argv, t)
		argv = append(argv, "-shared")
	case domain.KindStaticLibrary, domain.KindExecutable:
		argv = appendChildPaths(argv, t)
	case domain.KindGeneratedSource:
		return generatorCommand(argv, tool, t)
	default:
		return nil, zerr.With(domain.ErrUnknownKind, "kind", t.Kind().String())
	}

	for _, l := range t.Links() {
		argv = append(argv, l.Args()...)
	}
	return append(argv, tool.Output(), t.Path()), nil
}

// generatorCommand places the output pair before the interface file,
// which the generator expects last.
func generatorCommand(argv []string, tool domain.Tool, t *domain.Target) ([]string, error) {
	lang := t.Language()
	if lang == "" {
		err := zerr.With(domain.ErrMissingTargetLanguage, "target", t.Name())
		return nil, zerr.With(err, "remediation", languageRemediation)
	}

	argv = append(argv, "-"+lang)
	if t.CPlusPlus() {
		argv = append(argv, "-c++")
	}
	argv = append(argv, tool.Output(), t.Path(), "-oh", t.Header())
	argv = append(argv, t.GeneratorArgs()...)
	return append(argv, t.Interface()), nil
}

func appendChildPaths(argv []string, t *domain.Target) []string {
	for _, c := range t.Children() {
		argv = append(argv, c.Path())
	}
	return argv
}

// toolFor resolves the toolchain entry that builds t.
func toolFor(tc *domain.Toolchain, t *domain.Target) (domain.Tool, error) {
	tool, err := tc.Lookup(t.Tool())
	if err != nil {
		return domain.Tool{}, zerr.With(err, "target", t.Name())
	}
	return tool, nil
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/metaclass/internal/compiler"
	"github.com/roach88/metaclass/internal/engine"
	"github.com/roach88/metaclass/internal/ir"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the class declarations found in a specs directory.
type LoadResult struct {
	Classes   []ir.ClassDecl
	CUEValue  cue.Value
	FileCount int
}

// LoadError is a spec loading failure with an error code and, when CUE
// knows it, a source position.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants, unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // generic/unknown error
	ErrCodeScanError   = "E002" // directory scan error
	ErrCodeNoFiles     = "E003" // no CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // file write error
	ErrCodeStore       = "E008" // snapshot store error

	// Declaration errors
	ErrCodeInvalidBases = "E101" // bases is not a list of names
	ErrCodeInvalidAttr  = "E102" // attribute value cannot be compiled (e.g., float)
	ErrCodeInvalidFunc  = "E103" // function def/params malformed

	// Hierarchy errors
	ErrCodeUnknownBase    = "E301"
	ErrCodeDuplicateClass = "E302"
	ErrCodeCyclicBases    = "E303"

	// Query errors
	ErrCodeUnknownClass = "E401"
	ErrCodeBadFilter    = "E402" // show --where filter malformed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "bases":
		return ErrCodeInvalidBases
	case "attrs":
		return ErrCodeInvalidAttr
	case "def", "params":
		return ErrCodeInvalidFunc
	default:
		return ErrCodeGeneric
	}
}

// MapHierarchyIssueToErrorCode maps a compiler hierarchy issue to an error code.
func MapHierarchyIssueToErrorCode(code string) string {
	switch code {
	case compiler.IssueUnknownBase:
		return ErrCodeUnknownBase
	case compiler.IssueDuplicateClass:
		return ErrCodeDuplicateClass
	case compiler.IssueCyclicHierarchy:
		return ErrCodeCyclicBases
	default:
		return ErrCodeGeneric
	}
}

// LoadSpecs loads every CUE file in dir as one instance and compiles the
// classes under its top-level "class" struct. Compiled declarations are
// validated and their hierarchy is checked against the builtin classes.
// In LoadModeFailFast the first error is returned alone.
func LoadSpecs(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{CUEValue: value, FileCount: len(cueFiles)}
	var errs []error
	stop := func(err error) bool {
		errs = append(errs, err)
		return mode == LoadModeFailFast
	}

	classesVal := value.LookupPath(cue.ParsePath("class"))
	if classesVal.Exists() {
		iter, iterErr := classesVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating classes: %v", iterErr)})
			return result, errs
		}
		for iter.Next() {
			decl, compileErr := compiler.CompileClass(iter.Value())
			if compileErr != nil {
				if stop(convertCompileError(compileErr, "class."+iter.Label())) {
					return result, errs
				}
				continue
			}
			for _, ve := range compiler.Validate(decl) {
				if stop(convertValidationError(ve, decl)) {
					return result, errs
				}
			}
			result.Classes = append(result.Classes, *decl)
		}
	}

	if len(result.Classes) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no classes found in specs"})
		return result, errs
	}

	known := builtinNames()
	for _, issue := range compiler.CheckHierarchy(result.Classes, known) {
		loadErr := &LoadError{Code: MapHierarchyIssueToErrorCode(issue.Code), Message: issue.Message}
		if stop(loadErr) {
			return result, errs
		}
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// builtinNames reports the classes every engine starts with.
func builtinNames() func(string) bool {
	eng := engine.New()
	return func(name string) bool {
		_, err := eng.Lookup(name)
		return err == nil
	}
}

func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

func convertValidationError(ve compiler.ValidationError, decl *ir.ClassDecl) *LoadError {
	msg := fmt.Sprintf("class %s: %s: %s", decl.Name, ve.Field, ve.Message)
	if decl.Loc != nil {
		msg = fmt.Sprintf("%s (declared at %s)", msg, decl.Loc)
	}
	return &LoadError{Code: ve.Code, Message: msg}
}

// loadEngine compiles specsDir and materializes it into a fresh engine
// configured from opts. Failures are written through f.
func loadEngine(opts *RootOptions, f *OutputFormatter, specsDir string) (*engine.Engine, *LoadResult, error) {
	result, errs := LoadSpecs(specsDir, LoadModeCollectAll)
	if len(errs) > 0 {
		return nil, nil, f.FailAll(errs)
	}
	f.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, specsDir)

	logger := opts.logger()
	eng := engine.New(opts.config().EngineOptions(logger)...)
	if _, err := eng.Load(result.Classes); err != nil {
		return nil, nil, f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("loading classes: %v", err), nil)
	}
	logger.Debug("classes loaded", "dir", specsDir, "count", len(result.Classes))
	return eng, result, nil
}

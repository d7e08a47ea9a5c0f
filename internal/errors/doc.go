// Package errors provides structured, actionable error messages for htmldoc.
//
// Every error carries a code (e.g. "E201") registered with a category, a
// short message and a longer explanation. Call sites add what they know:
// the file and line that failed, a hint on how to fix it, and the
// underlying cause.
//
// # Error Categories
//
//   - config: htmldoc.json could not be found, read or validated
//   - report: a report description could not be read or is invalid
//   - render: writing a rendered document failed
//   - publish: uploading a document failed
//   - serve: the preview server could not start
//   - cli: invalid command line usage
//
// # Usage
//
//	err := errors.New("E201").
//	    WithLocation("reports/nightly.yaml", 12, 0).
//	    WithSuggestion("Check the indentation of the sections list").
//	    Wrap(yamlErr)
//
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR E201: Report could not be parsed
//	//
//	//   reports/nightly.yaml:12
//	//
//	//     10 │ sections:
//	//     11 │   - heading: Summary
//	//   → 12 │    paragraphs: [a]
//	//     13 │
//	//
//	//   Hint: Check the indentation of the sections list
package errors

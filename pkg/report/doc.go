// Package report turns YAML report descriptions into HTML documents.
//
// A report has a title and a list of sections. Each section may carry
// paragraphs, a bullet list, a table, a log dump and links:
//
//	title: Nightly build
//	lang: en
//	stylesheets: [style.css]
//	sections:
//	  - heading: Summary
//	    paragraphs: ["All <3> jobs passed"]
//	    table:
//	      columns: [job, status]
//	      rows: [[build, ok], [test, ok]]
//	    log: |
//	      INFO start
//	      ERROR boom
//
// Documents are built with package html only, so every piece of text in a
// report is escaped on output.
package report

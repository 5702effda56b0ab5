// Package analysis turns labelled, tokenized reviews into the per-place views
// shown on the dashboard.
//
// Every function is a pure function of its inputs: the same reviews always
// produce the same output, including ordering. Places come out in
// first-appearance order unless a function says otherwise, and keyword
// frequency ties are broken by first encounter in the flattened token
// sequence.
package analysis

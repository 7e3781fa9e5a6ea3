// Package main hosts the lottie2video CLI entrypoint and command graph.
//
// `convert` resolves the inputs (one file or every *.json in the batch input
// directory), validates the conversion settings once, and hands the jobs to
// the batch scheduler. Each job re-invokes this binary's `render` command to
// capture frames in headless Chrome before the format encoder packages them.
// `doctor`, `history` and `config` are operator utilities.
//
// Keep this package lean: conversion logic lives in the internal packages and
// is only wired together here.
package main

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonsieurBarti/code-graph-ai/internal/codegraph"
	"github.com/MonsieurBarti/code-graph-ai/internal/lang"
)

func TestParseTypeScriptSymbolsAndImports(t *testing.T) {
	src := `
import { useState } from "react";
import Legacy = require("./legacy");

export class Widget {
  render() {
    return doRender();
  }
}

export function helper() {
  return 1;
}
`
	p := New()
	result, err := p.Parse(lang.TypeScript, []byte(src))
	require.NoError(t, err)

	var names []string
	for _, s := range result.Symbols {
		names = append(names, s.Info.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "helper")

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "react", result.Imports[0].ModulePath)
	assert.Equal(t, ImportESM, result.Imports[0].Kind)
}

func TestParseTSXDetectsComponent(t *testing.T) {
	src := `
export function Button() {
  return <button>Click</button>;
}

function helper() {
  return 1;
}
`
	p := New()
	result, err := p.Parse(lang.TSX, []byte(src))
	require.NoError(t, err)

	kinds := map[string]codegraph.SymbolKind{}
	for _, s := range result.Symbols {
		kinds[s.Info.Name] = s.Info.Kind
	}
	assert.Equal(t, codegraph.SymbolComponent, kinds["Button"])
	assert.Equal(t, codegraph.SymbolFunction, kinds["helper"])
}

func TestParseCJSRequire(t *testing.T) {
	src := `const fs = require("fs");`
	p := New()
	result, err := p.Parse(lang.JavaScript, []byte(src))
	require.NoError(t, err)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, ImportCJS, result.Imports[0].Kind)
	assert.Equal(t, "fs", result.Imports[0].ModulePath)
}

func TestParseRustSymbolsAndUses(t *testing.T) {
	src := `
use std::collections::HashMap;
use crate::widget::Widget;

pub struct Counter {
    value: i32,
}

impl Counter {
    pub fn increment(&mut self) {
        self.value += 1;
    }
}

trait Greet {
    fn greet(&self);
}

impl Greet for Counter {
    fn greet(&self) {
        println!("hi");
    }
}
`
	p := New()
	result, err := p.Parse(lang.Rust, []byte(src))
	require.NoError(t, err)

	require.Len(t, result.RustUses, 2)
	assert.Equal(t, "std::collections::HashMap", result.RustUses[0].Path)

	var implementsRel *RelationshipInfo
	for i := range result.Relationships {
		if result.Relationships[i].Kind == RelImplements {
			implementsRel = &result.Relationships[i]
		}
	}
	require.NotNil(t, implementsRel)
	assert.Equal(t, "Counter", implementsRel.FromName)
	assert.Equal(t, "Greet", implementsRel.ToName)
}

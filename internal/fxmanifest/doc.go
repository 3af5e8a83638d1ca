// Package fxmanifest renders the runtime manifest (fxmanifest.lua) of a
// resource.
//
// The document is assembled from typed sections and rendered in one pass, in
// a fixed order:
//
//  1. Info comments, one "-- @key value" line per info key.
//  2. Core fields ("fx_version 'cerulean'"), from the manifest or from a
//     compiled-in default.
//  3. Scripts, either bundle references or server/client script blocks.
//  4. Files, the resolved file list.
//  5. Exports, one block per environment.
//
// Sections without data are omitted, except the script blocks, which are
// always present in unbundled mode. Rendering depends only on the manifest
// and the filesystem, so two renders over unchanged inputs are identical;
// [Writer.Write] relies on this to skip rewriting an unchanged manifest.
package fxmanifest

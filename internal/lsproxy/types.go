package lsproxy

import (
	"github.com/sprite-ai/blastr/internal/model"
)

// FileSymbolsRequest asks for every symbol defined in one file.
type FileSymbolsRequest struct {
	FilePath          string `json:"file_path"`
	IncludeSourceCode bool   `json:"include_source_code"`
}

// SymbolResponse lists the symbols of a file. When source code was
// requested, SourceCodeContext[i] is the full definition range and text
// of Symbols[i]; otherwise it is nil.
type SymbolResponse struct {
	Symbols           []model.Symbol      `json:"symbols"`
	SourceCodeContext []model.CodeContext `json:"source_code_context,omitempty"`
}

// ReferencesRequest asks for every reference to the symbol whose
// identifier starts at StartPosition.
type ReferencesRequest struct {
	StartPosition      model.FilePosition `json:"start_position"`
	IncludeDeclaration bool               `json:"include_declaration"`
}

// ReferencesResponse lists reference sites for a symbol.
type ReferencesResponse struct {
	References []model.FilePosition `json:"references"`
}

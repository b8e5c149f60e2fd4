package models

// Pipeline defaults. These mirror the knobs of the QA and embedding
// backends and should only be changed together with them.
const (
	DefaultTopK         = 3
	DefaultThreshold    = 0.5
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
	DefaultMaxRetries   = 3
	DefaultDimension    = 384
)

// Canned user-facing replies. Every pipeline path resolves to a real
// answer or one of these; callers can display them as-is.
const (
	MsgNoRelevantInfo    = "I couldn't find any relevant information to answer your question."
	MsgUnsupportedFormat = "I found some relevant information, but it appears to be in an unsupported format."
	MsgProcessingError   = "I'm sorry, I encountered an error processing your question. Please try again."
	MsgModelError        = "I'm sorry, I encountered an issue processing your request."
	MsgConnectionTrouble = "I'm sorry, I'm having trouble connecting to my knowledge base right now."
	MsgUnexpectedError   = "I'm sorry, an unexpected error occurred while processing your request."
)

// Metadata keys stamped on every ingested chunk.
const (
	MetaSource     = "source"
	MetaFileType   = "file_type"
	MetaDocumentID = "document_id"
	MetaChunkIndex = "chunk_index"
	MetaTimestamp  = "timestamp"
)

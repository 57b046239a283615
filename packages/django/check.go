package django

import (
	"github.com/catsop/sophttp/packages/logging"
	"github.com/catsop/sophttp/packages/ptree"
)

// CheckError inspects a fetched tree for the error shapes the backend
// produces and logs what it finds. It returns true when the tree is nil or
// carries an error, false for a healthy document.
//
// Exactly one shape is reported per call, in fixed priority:
//
//	nil tree                   -> "JSON Error: null property tree"
//	"info" with "traceback"    -> Django exception with traceback
//	"djerror"                  -> Django-reported error
//	"error"                    -> plain HTTP error, including the
//	                              substitute trees built by GetTree
func CheckError(tree *ptree.Tree) bool {
	switch {
	case tree == nil:
		logging.L().Error("JSON Error: null property tree")
		return true

	case tree.Has("info") && tree.Has("traceback"):
		logging.L().Errorf("Django error: %s", tree.Value("info"))
		logging.L().Errorf("    traceback: %s", tree.Value("traceback"))
		return true

	case tree.Has("djerror"):
		logging.L().Errorf("Django error: %s", tree.Value("djerror"))
		return true

	case tree.Has("error"):
		logging.L().Errorf("HTTP Error: %s", tree.Value("error"))
		return true

	default:
		return false
	}
}

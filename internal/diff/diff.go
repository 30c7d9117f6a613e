package diff

import (
	"errors"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var ErrPatchFailed = errors.New("patch does not apply")

var dmp *diffmatchpatch.DiffMatchPatch

func init() {
	dmp = diffmatchpatch.New()
}

// FindPatches returns the patch turning text1 into text2 in the textual patch format. Identical texts give "".
func FindPatches(text1, text2 string) string {
	diffs := dmp.DiffMain(text1, text2, false)
	return dmp.PatchToText(dmp.PatchMake(diffs))
}

// ApplyPatches applies a patch produced by FindPatches to text. It fails unless every hunk applies.
func ApplyPatches(text, patch string) (string, error) {
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPatchFailed, err)
	}

	result, applied := dmp.PatchApply(patches, text)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("%w: hunk %d rejected", ErrPatchFailed, i+1)
		}
	}
	return result, nil
}

// Package export turns stored audit records into a spreadsheet and hands
// the file to a share target.
//
// The pipeline is sequential: check images, build the workbook, write it to
// a scratch file, rename it into place, share it. Any failure aborts the
// whole batch and no shareable file is left behind. Nothing is retried.
//
// Images are exported as hyperlinks: the Image cell holds the local path
// and links to it with a file:// URL. Image bytes are never embedded.
//
// The output filename embeds the export date, so two exports on the same
// day reuse the same final path. Callers must not run two exports into the
// same directory at once.
package export

package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// ZipFiles writes the source files into a zip archive at target and
// returns the archive size. Directory structure is flattened, entries
// keep only their base names.
func ZipFiles(target string, sources []string) (int64, error) {
	if len(sources) == 0 {
		return 0, fmt.Errorf("no files to zip")
	}
	zipFile, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	for _, source := range sources {
		err = addFile(zipWriter, source)
		if err != nil {
			_ = zipWriter.Close()
			return 0, err
		}
	}
	err = zipWriter.Close()
	if err != nil {
		return 0, err
	}
	info, err := zipFile.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func addFile(zipWriter *zip.Writer, source string) error {
	file, err := os.Open(source)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = info.Name()
	header.Method = zip.Deflate
	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}

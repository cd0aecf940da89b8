package adapter

import (
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"

	m "github.com/droidmod/gatepatch/internal/model"
)

// ManifestFileName is the descriptor unit of a decompiled tree.
const ManifestFileName = "AndroidManifest.xml"

type manifestXML struct {
	XMLName     xml.Name       `xml:"manifest"`
	Package     string         `xml:"package,attr"`
	UsesSDK     usesSDKXML     `xml:"uses-sdk"`
	Permissions []namedXML     `xml:"uses-permission"`
	Application applicationXML `xml:"application"`
}

type usesSDKXML struct {
	TargetSDK string `xml:"targetSdkVersion,attr"`
}

type namedXML struct {
	Name string `xml:"name,attr"`
}

type applicationXML struct {
	Label      string     `xml:"label,attr"`
	Activities []namedXML `xml:"activity"`
}

type stringResourceXML struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type stringResourcesXML struct {
	Strings []stringResourceXML `xml:"string"`
}

// DecodePackageInfo reads the manifest of a decompiled tree and, when
// the application label is a string resource, resolves it against
// res/values/strings.xml. The decode is a single pass; missing optional
// pieces are left zero rather than reported as errors.
func DecodePackageInfo(sfs SourceFS, treeDir m.Path) (m.PackageInfo, error) {
	manifestPath := m.Path(filepath.Join(string(treeDir), ManifestFileName))

	raw, err := sfs.ReadFile(manifestPath)
	if err != nil {
		return m.PackageInfo{}, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest manifestXML

	if err := xml.Unmarshal(raw, &manifest); err != nil {
		return m.PackageInfo{}, fmt.Errorf("decoding manifest: %w", err)
	}

	info := m.PackageInfo{
		Package: manifest.Package,
		Label:   manifest.Application.Label,
	}

	if sdk, err := strconv.Atoi(manifest.UsesSDK.TargetSDK); err == nil {
		info.TargetSDK = sdk
	}

	for _, perm := range manifest.Permissions {
		if perm.Name != "" {
			info.Permissions = append(info.Permissions, perm.Name)
		}
	}

	for _, activity := range manifest.Application.Activities {
		if activity.Name != "" {
			info.Activities = append(info.Activities, activity.Name)
		}
	}

	if name, ok := resourceRef(info.Label); ok {
		if resolved := lookupStringResource(sfs, treeDir, name); resolved != "" {
			info.Label = resolved
		}
	}

	return info, nil
}

// resourceRef recognizes "@string/app_name" style label references.
func resourceRef(label string) (string, bool) {
	const prefix = "@string/"

	if len(label) > len(prefix) && label[:len(prefix)] == prefix {
		return label[len(prefix):], true
	}

	return "", false
}

func lookupStringResource(sfs SourceFS, treeDir m.Path, name string) string {
	stringsPath := m.Path(filepath.Join(string(treeDir), "res", "values", "strings.xml"))

	raw, err := sfs.ReadFile(stringsPath)
	if err != nil {
		return ""
	}

	var resources stringResourcesXML

	if err := xml.Unmarshal(raw, &resources); err != nil {
		return ""
	}

	for _, res := range resources.Strings {
		if res.Name == name {
			return res.Value
		}
	}

	return ""
}

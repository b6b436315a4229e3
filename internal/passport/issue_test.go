package passport

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractDateOfIssue", func() {
	DescribeTable("finds labeled dates",
		func(text, expected string) {
			Expect(ExtractDateOfIssue(text)).To(Equal(expected))
		},
		Entry("English label with the date on the same line",
			"Date of issue 15/03/2020", "2020-03-15"),
		Entry("date on the next line",
			"Date of issue / Date de délivrance\n15.03.2020", "2020-03-15"),
		Entry("date two lines below",
			"DATE OF ISSUE\nAuthority\n2020-03-15", "2020-03-15"),
		Entry("year first",
			"Ausstellungsdatum 2019/11/02", "2019-11-02"),
		Entry("month name",
			"Date of issue 02 NOV 2019", "2019-11-02"),
		Entry("bilingual month name",
			"Date de délivrance 02 NOV/NOV 2019", "2019-11-02"),
		Entry("month name with diacritics",
			"Ausstellungsdatum 7 März 2021", "2021-03-07"),
		Entry("Vietnamese label",
			"Ngày cấp / Date of issue\n15/03/2020", "2020-03-15"),
		Entry("label damaged by OCR",
			"Date 0f issue 15/03/2020", "2020-03-15"),
		Entry("Spanish label",
			"Fecha de expedición 01-02-2018", "2018-02-01"),
	)

	DescribeTable("returns empty",
		func(text string) {
			Expect(ExtractDateOfIssue(text)).To(BeEmpty())
		},
		Entry("no label", "Date of birth 01/01/1990\nDate of expiry 01/01/2030"),
		Entry("label too far from the date", "Date of issue\nA\nB\nC\n15/03/2020"),
		Entry("invalid month", "Date of issue 15/13/2020"),
		Entry("invalid day", "Date of issue 32/03/2020"),
		Entry("unknown month name", "Date of issue 02 FOO 2019"),
		Entry("empty text", ""),
	)
})

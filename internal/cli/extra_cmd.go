package cli

import (
	"goldendogfarm-admin/internal/domain/dogs"
	"goldendogfarm-admin/internal/domain/reservations"

	"github.com/spf13/cobra"
)

// bindDogFileFlags agrega los adjuntos del perro; sólo se envían los flags usados.
func bindDogFileFlags(cmd *cobra.Command, edit bool) func() map[string]any {
	fl := cmd.Flags()
	var (
		profile, pedigree, pedigreeImg string
		show, deleteShow               []string
		delProfile, delPedigree        bool
		delPedigreeImg, delShowAll     bool
	)
	fl.StringVar(&profile, "profile", "", "profile image file")
	fl.StringVar(&pedigree, "pedigree", "", "pedigree PDF file")
	fl.StringVar(&pedigreeImg, "pedigree-img", "", "pedigree image file")
	fl.StringArrayVar(&show, "show", nil, "show image file (repeatable, max 4)")
	if edit {
		fl.BoolVar(&delProfile, "delete-profile", false, "remove the profile image")
		fl.BoolVar(&delPedigree, "delete-pedigree", false, "remove the pedigree PDF")
		fl.BoolVar(&delPedigreeImg, "delete-pedigree-img", false, "remove the pedigree image")
		fl.BoolVar(&delShowAll, "delete-show-all", false, "remove every show image")
		fl.StringArrayVar(&deleteShow, "delete-show", nil, "show image to remove (repeatable)")
	}

	return func() map[string]any {
		out := map[string]any{}
		if fl.Changed("profile") {
			out["profile"] = profile
		}
		if fl.Changed("pedigree") {
			out["pedigree"] = pedigree
		}
		if fl.Changed("pedigree-img") {
			out["pedigreeImg"] = pedigreeImg
		}
		if fl.Changed("show") {
			out["show"] = show
		}
		if !edit {
			return out
		}
		if fl.Changed("delete-profile") {
			out["delete_profile"] = delProfile
		}
		if fl.Changed("delete-pedigree") {
			out["delete_pedigree"] = delPedigree
		}
		if fl.Changed("delete-pedigree-img") {
			out["delete_pedigreeImg"] = delPedigreeImg
		}
		if fl.Changed("delete-show-all") {
			out["delete_show_all"] = delShowAll
		}
		if fl.Changed("delete-show") {
			out["delete_show_ids"] = deleteShow
		}
		return out
	}
}

func dogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full dog detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := dogs.Get(cmd.Context(), app.client, id)
			if err != nil {
				return app.report("load dog", err)
			}
			return writeValue(app, d)
		},
	}
}

func reservationPDFCmd(app *App) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download the reservation receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			path, err := reservations.DownloadPDF(cmd.Context(), app.client, id, dir)
			if err != nil {
				return app.report("download receipt", err)
			}
			NewColorNotifier(app.Err).Success("download receipt", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", ".", "destination directory")
	return cmd
}
